package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// NewAccountsCommand creates the accounts command group.
func NewAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account", "acct"},
		Short:   "Manage accounts",
		Long:    "List, inspect, create, update and delete communications accounts",
	}

	cmd.AddCommand(newAccountsListCommand())
	cmd.AddCommand(newAccountsGetCommand())
	cmd.AddCommand(newAccountsCreateCommand())
	cmd.AddCommand(newAccountsUpdateCommand())
	cmd.AddCommand(newDeleteCommand("account", "accounts", func(ctx context.Context, client comms.Client, id string) error {
		return client.Accounts().Delete(ctx, &comms.DeleteAccountRequest{AccountID: id})
	}))

	return cmd
}

func newAccountsListCommand() *cobra.Command {
	var (
		allPages   bool
		maxResults int
		nextToken  string
		name       string
		userEmail  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Long:  "List accounts, optionally filtered by name or by the email of a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			accounts, next, err := listPage(cmd.Context(), allPages, nextToken,
				func(ctx context.Context, token string) (*comms.ListResponse[comms.Account], error) {
					return session.Client.Accounts().List(ctx, &comms.ListAccountsRequest{
						ListParams: comms.ListParams{MaxResults: maxResults, NextToken: token},
						Name:       name,
						UserEmail:  userEmail,
					})
				})
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), accounts, func(w io.Writer) error {
				return renderAccountsTable(w, accounts, next)
			})
		},
	}

	addListFlags(cmd, &allPages, &maxResults, &nextToken)
	cmd.Flags().StringVar(&name, "name", "", "filter by account name")
	cmd.Flags().StringVar(&userEmail, "user-email", "", "filter by member email")

	return cmd
}

func renderAccountsTable(w io.Writer, accounts []comms.Account, nextToken string) error {
	if len(accounts) == 0 {
		_, _ = io.WriteString(w, "No accounts found\n")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Type", "Default License", "Created")

	for _, account := range accounts {
		_ = table.Append(
			account.AccountID,
			account.Name,
			valueOrNA(account.AccountType),
			valueOrNA(account.DefaultLicense),
			formatTime(account.CreatedTimestamp),
		)
	}

	if err := renderTable(table); err != nil {
		return err
	}

	printNextToken(w, nextToken)

	return nil
}

func newAccountsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ACCOUNT_ID",
		Short: "Get account details",
		Long:  "Display detailed information about a specific account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			account, err := session.Client.Accounts().Get(cmd.Context(), &comms.GetAccountRequest{AccountID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to get account: %w", err)
			}

			return renderAccount(cmd.OutOrStdout(), account)
		},
	}
}

func renderAccount(w io.Writer, account *comms.Account) error {
	return renderOutput(w, account, func(w io.Writer) error {
		return renderProperties(w, [][2]string{
			{"ID", account.AccountID},
			{"Name", account.Name},
			{"AWS Account", valueOrNA(account.AwsAccountID)},
			{"Type", valueOrNA(account.AccountType)},
			{"Status", valueOrNA(account.AccountStatus)},
			{"Default License", valueOrNA(account.DefaultLicense)},
			{"Supported Licenses", valueOrNA(strings.Join(account.SupportedLicenses, ", "))},
			{"Created", formatTime(account.CreatedTimestamp)},
		})
	})
}

func newAccountsCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create an account",
		Long:  "Create a new communications account with the given name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			account, err := session.Client.Accounts().Create(cmd.Context(), &comms.CreateAccountRequest{Name: args[0]})
			if err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			return renderAccount(cmd.OutOrStdout(), account)
		},
	}
}

func newAccountsUpdateCommand() *cobra.Command {
	var (
		name           string
		defaultLicense string
	)

	cmd := &cobra.Command{
		Use:   "update ACCOUNT_ID",
		Short: "Update an account",
		Long:  "Rename an account or change its default license",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			account, err := session.Client.Accounts().Update(cmd.Context(), &comms.UpdateAccountRequest{
				AccountID:      args[0],
				Name:           name,
				DefaultLicense: defaultLicense,
			})
			if err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}

			return renderAccount(cmd.OutOrStdout(), account)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new account name")
	cmd.Flags().StringVar(&defaultLicense, "default-license", "", "default license (Basic, Plus, Pro, ProTrial)")

	return cmd
}
