package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage account users",
		Long:    "List, inspect and update the users of an account",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if accountID == "" {
				return constants.ErrAccountIDRequired
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&accountID, "account", "", "account ID (required)")

	cmd.AddCommand(newUsersListCommand(&accountID))
	cmd.AddCommand(newUsersGetCommand(&accountID))
	cmd.AddCommand(newUsersUpdateCommand(&accountID))

	return cmd
}

func newUsersListCommand(accountID *string) *cobra.Command {
	var (
		allPages   bool
		maxResults int
		nextToken  string
		userEmail  string
		userType   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List the users of an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			users, next, err := listPage(cmd.Context(), allPages, nextToken,
				func(ctx context.Context, token string) (*comms.ListResponse[comms.User], error) {
					return session.Client.Users().List(ctx, &comms.ListUsersRequest{
						ListParams: comms.ListParams{MaxResults: maxResults, NextToken: token},
						AccountID:  *accountID,
						UserEmail:  userEmail,
						UserType:   userType,
					})
				})
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), users, func(w io.Writer) error {
				return renderUsersTable(w, users, next)
			})
		},
	}

	addListFlags(cmd, &allPages, &maxResults, &nextToken)
	cmd.Flags().StringVar(&userEmail, "email", "", "filter by primary email")
	cmd.Flags().StringVar(&userType, "type", "", "filter by user type (PrivateUser, SharedDevice)")

	return cmd
}

func renderUsersTable(w io.Writer, users []comms.User, nextToken string) error {
	if len(users) == 0 {
		_, _ = io.WriteString(w, "No users found\n")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Email", "License", "Type", "Registration")

	for _, user := range users {
		_ = table.Append(
			user.UserID,
			valueOrNA(user.PrimaryEmail),
			valueOrNA(user.LicenseType),
			valueOrNA(user.UserType),
			valueOrNA(user.UserRegistrationStatus),
		)
	}

	if err := renderTable(table); err != nil {
		return err
	}

	printNextToken(w, nextToken)

	return nil
}

func renderUser(w io.Writer, user *comms.User) error {
	return renderOutput(w, user, func(w io.Writer) error {
		return renderProperties(w, [][2]string{
			{"ID", user.UserID},
			{"Account", valueOrNA(user.AccountID)},
			{"Email", valueOrNA(user.PrimaryEmail)},
			{"Display Name", valueOrNA(user.DisplayName)},
			{"License", valueOrNA(user.LicenseType)},
			{"Type", valueOrNA(user.UserType)},
			{"Registration", valueOrNA(user.UserRegistrationStatus)},
			{"Invitation", valueOrNA(user.UserInvitationStatus)},
			{"Registered", formatTime(user.RegisteredOn)},
			{"Invited", formatTime(user.InvitedOn)},
		})
	})
}

func newUsersGetCommand(accountID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get user details",
		Long:  "Display detailed information about a user of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			user, err := session.Client.Users().Get(cmd.Context(), &comms.GetUserRequest{
				AccountID: *accountID,
				UserID:    args[0],
			})
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			return renderUser(cmd.OutOrStdout(), user)
		},
	}
}

func newUsersUpdateCommand(accountID *string) *cobra.Command {
	var (
		license  string
		userType string
	)

	cmd := &cobra.Command{
		Use:   "update USER_ID",
		Short: "Update a user",
		Long:  "Change the license or type of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			user, err := session.Client.Users().Update(cmd.Context(), &comms.UpdateUserRequest{
				AccountID:   *accountID,
				UserID:      args[0],
				LicenseType: license,
				UserType:    userType,
			})
			if err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}

			return renderUser(cmd.OutOrStdout(), user)
		},
	}

	cmd.Flags().StringVar(&license, "license", "", "license type (Basic, Plus, Pro, ProTrial)")
	cmd.Flags().StringVar(&userType, "type", "", "user type (PrivateUser, SharedDevice)")

	return cmd
}
