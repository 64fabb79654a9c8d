package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// NewPhoneNumbersCommand creates the phone-numbers command group.
func NewPhoneNumbersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "phone-numbers",
		Aliases: []string{"phone-number", "pn"},
		Short:   "Manage phone numbers",
		Long:    "List, inspect and release provisioned phone numbers",
	}

	cmd.AddCommand(newPhoneNumbersListCommand())
	cmd.AddCommand(newPhoneNumbersGetCommand())
	cmd.AddCommand(newDeleteCommand("phone number", "phone numbers", func(ctx context.Context, client comms.Client, id string) error {
		return client.PhoneNumbers().Delete(ctx, &comms.DeletePhoneNumberRequest{PhoneNumberID: id})
	}))

	return cmd
}

func newPhoneNumbersListCommand() *cobra.Command {
	var (
		allPages    bool
		maxResults  int
		nextToken   string
		status      string
		productType string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List phone numbers",
		Long:  "List provisioned phone numbers, optionally filtered by status or product type",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			numbers, next, err := listPage(cmd.Context(), allPages, nextToken,
				func(ctx context.Context, token string) (*comms.ListResponse[comms.PhoneNumber], error) {
					return session.Client.PhoneNumbers().List(ctx, &comms.ListPhoneNumbersRequest{
						ListParams:  comms.ListParams{MaxResults: maxResults, NextToken: token},
						Status:      status,
						ProductType: productType,
					})
				})
			if err != nil {
				return fmt.Errorf("failed to list phone numbers: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), numbers, func(w io.Writer) error {
				return renderPhoneNumbersTable(w, numbers, next)
			})
		},
	}

	addListFlags(cmd, &allPages, &maxResults, &nextToken)
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&productType, "product-type", "", "filter by product type (BusinessCalling, VoiceConnector, SipMediaApplicationDialIn)")

	return cmd
}

func renderPhoneNumbersTable(w io.Writer, numbers []comms.PhoneNumber, nextToken string) error {
	if len(numbers) == 0 {
		_, _ = io.WriteString(w, "No phone numbers found\n")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Number", "Country", "Product Type", "Status")

	for _, number := range numbers {
		_ = table.Append(
			number.PhoneNumberID,
			valueOrNA(number.E164PhoneNumber),
			valueOrNA(number.Country),
			valueOrNA(number.ProductType),
			valueOrNA(number.Status),
		)
	}

	if err := renderTable(table); err != nil {
		return err
	}

	printNextToken(w, nextToken)

	return nil
}

func newPhoneNumbersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PHONE_NUMBER_ID",
		Short: "Get phone number details",
		Long:  "Display a phone number and its capabilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			number, err := session.Client.PhoneNumbers().Get(cmd.Context(), &comms.GetPhoneNumberRequest{PhoneNumberID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to get phone number: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), number, func(w io.Writer) error {
				return renderProperties(w, phoneNumberRows(number))
			})
		},
	}
}

func phoneNumberRows(number *comms.PhoneNumber) [][2]string {
	rows := [][2]string{
		{"ID", number.PhoneNumberID},
		{"Number", valueOrNA(number.E164PhoneNumber)},
		{"Country", valueOrNA(number.Country)},
		{"Type", valueOrNA(number.Type)},
		{"Product Type", valueOrNA(number.ProductType)},
		{"Status", valueOrNA(number.Status)},
		{"Calling Name", valueOrNA(number.CallingName)},
	}

	if caps := number.Capabilities; caps != nil {
		rows = append(rows,
			[2]string{"Inbound Call", formatBool(caps.InboundCall)},
			[2]string{"Outbound Call", formatBool(caps.OutboundCall)},
			[2]string{"Inbound SMS", formatBool(caps.InboundSMS)},
			[2]string{"Outbound SMS", formatBool(caps.OutboundSMS)},
			[2]string{"Inbound MMS", formatBool(caps.InboundMMS)},
			[2]string{"Outbound MMS", formatBool(caps.OutboundMMS)},
		)
	}

	return append(rows,
		[2]string{"Created", formatTime(number.CreatedTimestamp)},
		[2]string{"Updated", formatTime(number.UpdatedTimestamp)},
	)
}
