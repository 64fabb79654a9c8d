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

// NewMeetingsCommand creates the meetings command group.
func NewMeetingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meetings",
		Aliases: []string{"meeting", "mtg"},
		Short:   "Manage meetings",
		Long:    "List, inspect, create and end meetings",
	}

	cmd.AddCommand(newMeetingsListCommand())
	cmd.AddCommand(newMeetingsGetCommand())
	cmd.AddCommand(newMeetingsCreateCommand())
	cmd.AddCommand(newDeleteCommand("meeting", "meetings", func(ctx context.Context, client comms.Client, id string) error {
		return client.Meetings().Delete(ctx, &comms.DeleteMeetingRequest{MeetingID: id})
	}))

	return cmd
}

func newMeetingsListCommand() *cobra.Command {
	var (
		allPages   bool
		maxResults int
		nextToken  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List meetings",
		Long:  "List active meetings",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			meetings, next, err := listPage(cmd.Context(), allPages, nextToken,
				func(ctx context.Context, token string) (*comms.ListResponse[comms.Meeting], error) {
					return session.Client.Meetings().List(ctx, &comms.ListMeetingsRequest{
						ListParams: comms.ListParams{MaxResults: maxResults, NextToken: token},
					})
				})
			if err != nil {
				return fmt.Errorf("failed to list meetings: %w", err)
			}

			return renderOutput(cmd.OutOrStdout(), meetings, func(w io.Writer) error {
				return renderMeetingsTable(w, meetings, next)
			})
		},
	}

	addListFlags(cmd, &allPages, &maxResults, &nextToken)

	return cmd
}

func renderMeetingsTable(w io.Writer, meetings []comms.Meeting, nextToken string) error {
	if len(meetings) == 0 {
		_, _ = io.WriteString(w, "No meetings found\n")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "External ID", "Media Region")

	for _, meeting := range meetings {
		_ = table.Append(meeting.MeetingID, valueOrNA(meeting.ExternalMeetingID), valueOrNA(meeting.MediaRegion))
	}

	if err := renderTable(table); err != nil {
		return err
	}

	printNextToken(w, nextToken)

	return nil
}

func renderMeeting(w io.Writer, meeting *comms.Meeting) error {
	return renderOutput(w, meeting, func(w io.Writer) error {
		rows := [][2]string{
			{"ID", meeting.MeetingID},
			{"External ID", valueOrNA(meeting.ExternalMeetingID)},
			{"Media Region", valueOrNA(meeting.MediaRegion)},
		}

		if placement := meeting.MediaPlacement; placement != nil {
			rows = append(rows,
				[2]string{"Audio Host", valueOrNA(placement.AudioHostURL)},
				[2]string{"Audio Fallback", valueOrNA(placement.AudioFallbackURL)},
				[2]string{"Signaling", valueOrNA(placement.SignalingURL)},
				[2]string{"Turn Control", valueOrNA(placement.TurnControlURL)},
			)
		}

		return renderProperties(w, rows)
	})
}

func newMeetingsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get MEETING_ID",
		Short: "Get meeting details",
		Long:  "Display a meeting and its media placement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			meeting, err := session.Client.Meetings().Get(cmd.Context(), &comms.GetMeetingRequest{MeetingID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to get meeting: %w", err)
			}

			return renderMeeting(cmd.OutOrStdout(), meeting)
		},
	}
}

func newMeetingsCreateCommand() *cobra.Command {
	var (
		clientToken string
		externalID  string
		mediaRegion string
		hostID      string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a meeting",
		Long:  "Create a meeting. A client request token is generated unless --client-token is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedTags, err := parseTags(tags)
			if err != nil {
				return err
			}

			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			meeting, err := session.Client.Meetings().Create(cmd.Context(), &comms.CreateMeetingRequest{
				ClientRequestToken: clientToken,
				ExternalMeetingID:  externalID,
				MediaRegion:        mediaRegion,
				MeetingHostID:      hostID,
				Tags:               parsedTags,
			})
			if err != nil {
				return fmt.Errorf("failed to create meeting: %w", err)
			}

			return renderMeeting(cmd.OutOrStdout(), meeting)
		},
	}

	cmd.Flags().StringVar(&clientToken, "client-token", "", "idempotency token")
	cmd.Flags().StringVar(&externalID, "external-id", "", "external meeting ID")
	cmd.Flags().StringVar(&mediaRegion, "media-region", "", "media region, for example us-east-1")
	cmd.Flags().StringVar(&hostID, "host-id", "", "meeting host ID")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag as KEY=VALUE (repeatable)")

	return cmd
}

func parseTags(values []string) ([]comms.Tag, error) {
	if len(values) == 0 {
		return nil, nil
	}

	tags := make([]comms.Tag, 0, len(values))

	for _, value := range values {
		key, val, ok := strings.Cut(value, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTag, value)
		}

		tags = append(tags, comms.Tag{Key: key, Value: val})
	}

	return tags, nil
}
