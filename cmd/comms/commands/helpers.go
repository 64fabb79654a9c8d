package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/comms-client/internal/auth"
	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
	"github.com/fivetwenty-io/comms-client/pkg/commsclient"
	"github.com/fivetwenty-io/comms-client/pkg/instrument"
	"github.com/fivetwenty-io/comms-client/pkg/logging"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"
	Yes          = "yes"
	No           = "no"

	defaultJSONIndent = 2

	// Viper keys.
	keyEndpoint        = "endpoint"
	keyRegion          = "region"
	keyProfile         = "profile"
	keyCredentialsFile = "credentials_file"
	keyAccessKeyID     = "access_key_id"
	keySecretAccessKey = "secret_access_key"
	keySessionToken    = "session_token"
	keyOutput          = "output"
	keyVerbose         = "verbose"
	keyTimings         = "timings"
	keyNATSURL         = "nats_url"
	keyRetryMax        = "retry_max"
	keyRateLimit       = "rate_limit"
	keyConcurrency     = "concurrency"
)

// Common static errors used throughout the commands package.
var (
	ErrInvalidTag   = errors.New("invalid tag, expected KEY=VALUE")
	ErrDeleteFailed = errors.New("one or more deletes failed")
)

// Session is a client together with the sinks that outlive single calls.
type Session struct {
	Client  comms.Client
	Timings *comms.MetricsCollector

	nats *nats.Conn
}

// Close flushes the NATS connection and, with --timings, prints per-operation
// totals to w.
func (s *Session) Close(w io.Writer) {
	if s.nats != nil {
		_ = s.nats.Flush()
		s.nats.Close()
	}

	if s.Timings != nil && viper.GetBool(keyTimings) {
		_ = renderTimings(w, s.Timings)
	}
}

// CreateSession builds a client from the merged flag, environment and config
// file settings.
func CreateSession(cmd *cobra.Command) (*Session, error) {
	config := &comms.Config{
		Endpoint:        viper.GetString(keyEndpoint),
		Region:          viper.GetString(keyRegion),
		Profile:         viper.GetString(keyProfile),
		CredentialsFile: viper.GetString(keyCredentialsFile),
		AccessKeyID:     viper.GetString(keyAccessKeyID),
		SecretAccessKey: viper.GetString(keySecretAccessKey),
		SessionToken:    viper.GetString(keySessionToken),
		RetryMax:        viper.GetInt(keyRetryMax),
		RateLimit:       viper.GetFloat64(keyRateLimit),
	}

	applyProfileDefaults(config)

	session := &Session{Timings: comms.NewMetricsCollector()}
	sinks := []comms.Instrumentation{session.Timings}

	var logger *logging.Logger
	if viper.GetBool(keyVerbose) {
		logger = logging.NewConsole(cmd.ErrOrStderr(), "debug")
		config.Logger = logger
		config.Debug = true
		sinks = append(sinks, instrument.NewLogging(logger))
	}

	if url := viper.GetString(keyNATSURL); url != "" {
		conn, err := instrument.ConnectNATS(url)
		if err != nil {
			return nil, err
		}

		session.nats = conn

		opts := []instrument.NATSOption{}
		if logger != nil {
			opts = append(opts, instrument.WithPublishLogger(logger))
		}

		sinks = append(sinks, instrument.NewNATS(conn, opts...))
	}

	config.Instrumentation = comms.NewMultiInstrumentation(sinks...)

	client, err := commsclient.New(config)
	if err != nil {
		session.Close(cmd.ErrOrStderr())

		return nil, err
	}

	session.Client = client

	return session, nil
}

// applyProfileDefaults fills the endpoint and region from the selected
// credentials profile when neither a flag nor the config file set them.
func applyProfileDefaults(config *comms.Config) {
	if config.Endpoint != "" && config.Region != "" {
		return
	}

	provider := auth.NewFileProvider(config.CredentialsFile, config.Profile)

	profile, err := provider.LoadProfile(provider.ProfileName())
	if err != nil {
		return
	}

	if config.Endpoint == "" {
		config.Endpoint = profile.Endpoint
	}

	if config.Region == "" {
		config.Region = profile.Region
	}
}

// StandardJSONRenderer writes data as indented JSON.
func StandardJSONRenderer[T any](w io.Writer, data T) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML.
func StandardYAMLRenderer[T any](w io.Writer, data T) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultJSONIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// renderOutput dispatches on --output; table handles the table format.
func renderOutput[T any](w io.Writer, data T, table func(io.Writer) error) error {
	switch format := viper.GetString(keyOutput); format {
	case constants.OutputFormatJSON:
		return StandardJSONRenderer(w, data)
	case constants.OutputFormatYAML:
		return StandardYAMLRenderer(w, data)
	case constants.OutputFormatTable, "":
		return table(w)
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

func renderTable(table *tablewriter.Table) error {
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderProperties renders name/value pairs as a two column table.
func renderProperties(w io.Writer, rows [][2]string) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}

	return renderTable(table)
}

func renderTimings(w io.Writer, collector *comms.MetricsCollector) error {
	operations := collector.Operations()
	if len(operations) == 0 {
		return nil
	}

	sort.Strings(operations)

	table := tablewriter.NewWriter(w)
	table.Header("Operation", "Calls", "Errors", "Average")

	for _, operation := range operations {
		metrics := collector.GetMetrics(operation)
		if metrics == nil {
			continue
		}

		_ = table.Append(
			operation,
			strconv.FormatInt(metrics.TotalRequests, 10),
			strconv.FormatInt(metrics.TotalErrors, 10),
			metrics.AverageLatency.Round(time.Microsecond).String(),
		)
	}

	return renderTable(table)
}

// listPage fetches one page starting at nextToken, or every page from
// nextToken on when all is set.
func listPage[T any](ctx context.Context, all bool, nextToken string, fetch comms.PageFunc[T]) ([]T, string, error) {
	if all {
		opts := comms.DefaultPaginationOptions()
		opts.StartToken = nextToken

		items, err := comms.CollectAll(ctx, fetch, opts)

		return items, "", err
	}

	page, err := fetch(ctx, nextToken)
	if err != nil {
		return nil, "", err
	}

	if page.HasNext() {
		return page.Items, *page.NextToken, nil
	}

	return page.Items, "", nil
}

func addListFlags(cmd *cobra.Command, all *bool, maxResults *int, nextToken *string) {
	cmd.Flags().BoolVar(all, "all", false, "fetch all pages")
	cmd.Flags().IntVar(maxResults, "max-results", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(nextToken, "next-token", "", "token of the page to start from")
}

func printNextToken(w io.Writer, nextToken string) {
	if nextToken != "" {
		_, _ = fmt.Fprintf(w, "\nMore results available, use --next-token %s\n", nextToken)
	}
}

// deleteAll deletes every id with bounded concurrency and reports each outcome.
func deleteAll(ctx context.Context, w io.Writer, resource string, ids []string, remove func(context.Context, string) error) error {
	items := make([]comms.BatchItem[string], 0, len(ids))
	for _, id := range ids {
		items = append(items, comms.BatchItem[string]{ID: id, Input: id})
	}

	concurrency := viper.GetInt(keyConcurrency)
	results := comms.RunBatch(ctx, comms.NewBatchExecutor(concurrency), items,
		func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, remove(ctx, id)
		})

	title := cases.Title(language.English).String(resource)

	for _, result := range results {
		if result.Success() {
			_, _ = fmt.Fprintf(w, "%s %s deleted\n", title, result.ID)
		} else {
			_, _ = fmt.Fprintf(w, "Failed to delete %s %s: %v\n", resource, result.ID, result.Error)
		}
	}

	if err := comms.BatchErrors(results); err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	return nil
}

func newDeleteCommand(resource, plural string, remove func(ctx context.Context, client comms.Client, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID [ID...]",
		Short: "Delete " + plural,
		Long:  fmt.Sprintf("Delete one or more %s by ID. Deletes run concurrently, bounded by --concurrency.", plural),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := CreateSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close(cmd.ErrOrStderr())

			return deleteAll(cmd.Context(), cmd.OutOrStdout(), resource, args,
				func(ctx context.Context, id string) error {
					return remove(ctx, session.Client, id)
				})
		},
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}

	return t.Format(time.RFC3339)
}

func formatBool(value bool) string {
	if value {
		return Yes
	}

	return No
}

func valueOrNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}
