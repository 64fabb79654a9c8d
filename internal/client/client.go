package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/comms-client/internal/auth"
	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/internal/executor"
	"github.com/fivetwenty-io/comms-client/internal/http"
	"github.com/fivetwenty-io/comms-client/internal/signer"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// ErrEndpointRequired is returned by New when config has no endpoint.
var ErrEndpointRequired = errors.New("endpoint is required")

// Client implements the comms.Client interface.
type Client struct {
	executor *executor.Executor
	provider comms.CredentialsProvider

	// Resource clients
	accounts        comms.AccountsClient
	users           comms.UsersClient
	meetings        comms.MeetingsClient
	phoneNumbers    comms.PhoneNumbersClient
	voiceConnectors comms.VoiceConnectorsClient
}

// createCredentialsProvider picks the provider based on config.
func createCredentialsProvider(config *comms.Config) comms.CredentialsProvider {
	var provider comms.CredentialsProvider

	switch {
	case config.AccessKeyID != "" && config.SecretAccessKey != "":
		provider = auth.NewStaticProvider(config.AccessKeyID, config.SecretAccessKey, config.SessionToken)
	case config.CredentialsProvider != nil:
		provider = config.CredentialsProvider
	default:
		provider = auth.DefaultChain(config.Profile, config.CredentialsFile)
	}

	if config.CacheCredentials {
		provider = auth.NewCachedProvider(provider)
	}

	return provider
}

// createTransport builds the HTTP transport from config.
func createTransport(config *comms.Config) comms.HTTPDoer {
	if config.HTTPClient != nil {
		return config.HTTPClient
	}

	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.RateLimit > 0 {
		httpOpts = append(httpOpts, http.WithRateLimit(config.RateLimit, config.RateBurst))
	}

	return http.NewTransport(httpOpts...)
}

// New creates a client from config. The endpoint must already be absolute.
func New(config *comms.Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, ErrEndpointRequired
	}

	provider := createCredentialsProvider(config)

	opts := []executor.Option{
		executor.WithTransport(createTransport(config)),
		executor.WithCredentialsProvider(provider),
		executor.WithSigner(signer.NewSigV4(config.SigningName, config.Region)),
		executor.WithUserAgent(config.UserAgent),
	}

	if config.Logger != nil {
		opts = append(opts, executor.WithLogger(config.Logger))
	}

	if config.Instrumentation != nil {
		opts = append(opts, executor.WithInstrumentation(config.Instrumentation))
	}

	exec, err := executor.New(config.Endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating executor: %w", err)
	}

	client := NewWithExecutor(exec)
	client.provider = provider

	return client, nil
}

// NewWithExecutor creates a client around a prepared executor.
func NewWithExecutor(exec *executor.Executor) *Client {
	client := &Client{executor: exec}

	client.initializeResourceClients()

	return client
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.accounts = NewAccountsClient(c.executor)
	c.users = NewUsersClient(c.executor)
	c.meetings = NewMeetingsClient(c.executor)
	c.phoneNumbers = NewPhoneNumbersClient(c.executor)
	c.voiceConnectors = NewVoiceConnectorsClient(c.executor)
}

// CredentialsProvider returns the provider polled by this client.
func (c *Client) CredentialsProvider() comms.CredentialsProvider {
	return c.provider
}

// Endpoint returns the base URL of the control plane.
func (c *Client) Endpoint() string {
	return c.executor.Endpoint()
}

// Accounts implements comms.Client.Accounts.
func (c *Client) Accounts() comms.AccountsClient {
	return c.accounts
}

// Users implements comms.Client.Users.
func (c *Client) Users() comms.UsersClient {
	return c.users
}

// Meetings implements comms.Client.Meetings.
func (c *Client) Meetings() comms.MeetingsClient {
	return c.meetings
}

// PhoneNumbers implements comms.Client.PhoneNumbers.
func (c *Client) PhoneNumbers() comms.PhoneNumbersClient {
	return c.phoneNumbers
}

// VoiceConnectors implements comms.Client.VoiceConnectors.
func (c *Client) VoiceConnectors() comms.VoiceConnectorsClient {
	return c.voiceConnectors
}

// decodeList decodes a page of the shape {"<field>": [...], "NextToken": "..."}.
func decodeList[T any](field string) executor.Decoder[*comms.ListResponse[T]] {
	return func(resp *executor.WireResponse) (*comms.ListResponse[T], error) {
		var envelope map[string]json.RawMessage

		if err := json.Unmarshal(resp.Body, &envelope); err != nil {
			return nil, fmt.Errorf("parsing %s list: %w", field, err)
		}

		list := &comms.ListResponse[T]{Items: []T{}}

		if raw, ok := envelope[field]; ok && string(raw) != "null" {
			if err := json.Unmarshal(raw, &list.Items); err != nil {
				return nil, fmt.Errorf("parsing %s list: %w", field, err)
			}
		}

		if raw, ok := envelope["NextToken"]; ok && string(raw) != "null" {
			var token string
			if err := json.Unmarshal(raw, &token); err != nil {
				return nil, fmt.Errorf("parsing %s next token: %w", field, err)
			}

			if token != "" {
				list.NextToken = &token
			}
		}

		return list, nil
	}
}
