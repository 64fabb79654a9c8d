package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// NewVoiceConnectorsCommand creates the voice-connectors command group.
func NewVoiceConnectorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "voice-connectors",
		Aliases: []string{"voice-connector", "vc"},
		Short:   "Manage voice connectors",
		Long:    "List, inspect, create and delete voice connectors",
	}

	cmd.AddCommand(newVoiceConnectorsListCommand())
	cmd.AddCommand(newVoiceConnectorsGetCommand())
	cmd.AddCommand(newVoiceConnectorsCreateCommand())
	cmd.AddCommand(newDeleteCommand("voice connector", "voice connectors", func(ctx context.Context, client comms.Client, id string) error {
		return client.VoiceConnectors().Delete(ctx, &comms.DeleteVoiceConnectorRequest{VoiceConnectorID: id})
	}))

	return cmd
}

func newVoiceConnectorsListCommand() *cobra.Command {
	var (
		allPages   bool
		maxResults int
		nextToken  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List voice connectors",
		Long:  "List the voice connectors of the caller",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			connectors, next, err := listPage(cmd.Context(), allPages, nextToken,
				func(ctx context.Context, token string) (*comms.ListResponse[comms.VoiceConnector], error) {
					return session.Client.VoiceConnectors().List(ctx, &comms.ListVoiceConnectorsRequest{
						ListParams: comms.ListParams{MaxResults: maxResults, NextToken: token},
					})
				})
			if err != nil {
				return fmt.Errorf("failed to list voice connectors: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), connectors, func(w io.Writer) error {
				return renderVoiceConnectorsTable(w, connectors, next)
			})
		},
	}

	addListFlags(cmd, &allPages, &maxResults, &nextToken)

	return cmd
}

func renderVoiceConnectorsTable(w io.Writer, connectors []comms.VoiceConnector, nextToken string) error {
	if len(connectors) == 0 {
		_, _ = io.WriteString(w, "No voice connectors found\n")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Region", "Outbound Host", "Encryption")

	for _, connector := range connectors {
		_ = table.Append(
			connector.VoiceConnectorID,
			connector.Name,
			valueOrNA(connector.AwsRegion),
			valueOrNA(connector.OutboundHostName),
			formatBool(connector.RequireEncryption),
		)
	}

	if err := renderTable(table); err != nil {
		return err
	}

	printNextToken(w, nextToken)

	return nil
}

func renderVoiceConnector(w io.Writer, connector *comms.VoiceConnector) error {
	return renderOutput(w, connector, func(w io.Writer) error {
		return renderProperties(w, [][2]string{
			{"ID", connector.VoiceConnectorID},
			{"Name", connector.Name},
			{"Region", valueOrNA(connector.AwsRegion)},
			{"Outbound Host", valueOrNA(connector.OutboundHostName)},
			{"Require Encryption", formatBool(connector.RequireEncryption)},
			{"Created", formatTime(connector.CreatedTimestamp)},
			{"Updated", formatTime(connector.UpdatedTimestamp)},
		})
	})
}

func newVoiceConnectorsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get VOICE_CONNECTOR_ID",
		Short: "Get voice connector details",
		Long:  "Display detailed information about a voice connector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			connector, err := session.Client.VoiceConnectors().Get(cmd.Context(), &comms.GetVoiceConnectorRequest{
				VoiceConnectorID: args[0],
			})
			if err != nil {
				return fmt.Errorf("failed to get voice connector: %w", err)
			}

			return renderVoiceConnector(cmd.OutOrStdout(), connector)
		},
	}
}

func newVoiceConnectorsCreateCommand() *cobra.Command {
	var (
		awsRegion         string
		requireEncryption string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a voice connector",
		Long:  "Create a voice connector. --require-encryption must be given explicitly as true or false.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encrypt, err := strconv.ParseBool(requireEncryption)
			if err != nil {
				return fmt.Errorf("%w: %q", constants.ErrInvalidEncryptionSetting, requireEncryption)
			}

			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			connector, err := session.Client.VoiceConnectors().Create(cmd.Context(), &comms.CreateVoiceConnectorRequest{
				Name:              args[0],
				AwsRegion:         awsRegion,
				RequireEncryption: &encrypt,
			})
			if err != nil {
				return fmt.Errorf("failed to create voice connector: %w", err)
			}

			return renderVoiceConnector(cmd.OutOrStdout(), connector)
		},
	}

	cmd.Flags().StringVar(&awsRegion, "aws-region", "", "region of the connector (us-east-1, us-west-2)")
	cmd.Flags().StringVar(&requireEncryption, "require-encryption", "", "require TLS and SRTP (true or false)")
	_ = cmd.MarkFlagRequired("require-encryption")

	return cmd
}
