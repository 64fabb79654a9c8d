package comms

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired   = errors.New("config is required")
	ErrEndpointRequired = errors.New("endpoint is required")
	ErrRegionRequired   = errors.New("region is required")
)

// Credentials is an access key, secret and optional session token triple.
// It is the aws-sdk-go-v2 value so that any aws credentials provider can be used.
type Credentials = aws.Credentials

// CredentialsProvider supplies the current credentials. Retrieve is called once
// per request; implementations that want caching must do it themselves.
type CredentialsProvider = aws.CredentialsProvider

// HTTPDoer is the transport collaborator. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CoreResourceClients provides access to account and user management.
type CoreResourceClients interface {
	Accounts() AccountsClient
	Users() UsersClient
}

// CommunicationClients provides access to meeting and telephony resources.
type CommunicationClients interface {
	Meetings() MeetingsClient
	PhoneNumbers() PhoneNumbersClient
	VoiceConnectors() VoiceConnectorsClient
}

// Client is the full control-plane client.
type Client interface {
	CoreResourceClients
	CommunicationClients
}

// AccountsClient manages accounts.
type AccountsClient interface {
	Create(ctx context.Context, request *CreateAccountRequest) (*Account, error)
	Get(ctx context.Context, request *GetAccountRequest) (*Account, error)
	List(ctx context.Context, request *ListAccountsRequest) (*ListResponse[Account], error)
	Update(ctx context.Context, request *UpdateAccountRequest) (*Account, error)
	Delete(ctx context.Context, request *DeleteAccountRequest) error
}

// UsersClient manages users of an account.
type UsersClient interface {
	Get(ctx context.Context, request *GetUserRequest) (*User, error)
	List(ctx context.Context, request *ListUsersRequest) (*ListResponse[User], error)
	Update(ctx context.Context, request *UpdateUserRequest) (*User, error)
}

// MeetingsClient manages meetings.
type MeetingsClient interface {
	Create(ctx context.Context, request *CreateMeetingRequest) (*Meeting, error)
	Get(ctx context.Context, request *GetMeetingRequest) (*Meeting, error)
	List(ctx context.Context, request *ListMeetingsRequest) (*ListResponse[Meeting], error)
	Delete(ctx context.Context, request *DeleteMeetingRequest) error
}

// PhoneNumbersClient manages provisioned phone numbers.
type PhoneNumbersClient interface {
	Get(ctx context.Context, request *GetPhoneNumberRequest) (*PhoneNumber, error)
	List(ctx context.Context, request *ListPhoneNumbersRequest) (*ListResponse[PhoneNumber], error)
	Delete(ctx context.Context, request *DeletePhoneNumberRequest) error
}

// VoiceConnectorsClient manages voice connectors.
type VoiceConnectorsClient interface {
	Create(ctx context.Context, request *CreateVoiceConnectorRequest) (*VoiceConnector, error)
	Get(ctx context.Context, request *GetVoiceConnectorRequest) (*VoiceConnector, error)
	List(ctx context.Context, request *ListVoiceConnectorsRequest) (*ListResponse[VoiceConnector], error)
	Delete(ctx context.Context, request *DeleteVoiceConnectorRequest) error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a comms.Client.
//
// # Credentials precedence
//
// The concrete client (see pkg/commsclient) picks credentials as follows:
//  1. AccessKeyID/SecretAccessKey (+ SessionToken): static credentials.
//  2. CredentialsProvider: any aws-compatible provider.
//  3. Otherwise a chain of the environment (COMMS_* then AWS_*) and the shared
//     credentials file for Profile.
//
// Independently of the configured source, a request whose CallOptions carry
// Credentials is signed with those for that call only.
//
// # Timeouts, retries and rate limits
//
// Per-request deadlines come from the context passed to each method. Retries
// are a transport setting and are disabled unless RetryMax > 0. RateLimit
// bounds requests per second across all calls made through one client.
type Config struct {
	// Endpoint: base URL of the control plane. Defaults to the public endpoint.
	// commsclient.New adds "https://" when no scheme is present.
	Endpoint string
	// Region: SigV4 signing region. Defaults to us-east-1.
	Region string
	// SigningName: SigV4 service name. Defaults to "chime".
	SigningName string

	// AccessKeyID, SecretAccessKey, SessionToken: static credentials.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// CredentialsProvider: used when no static keys are set.
	CredentialsProvider CredentialsProvider
	// Profile: shared credentials file profile used by the default chain.
	Profile string
	// CredentialsFile: overrides the shared credentials file location.
	CredentialsFile string
	// CacheCredentials wraps the provider in an expiry-aware cache. Leave it
	// off for providers that rotate keys without advertising an expiry.
	CacheCredentials bool

	// HTTPTimeout: whole-request timeout of the default transport.
	HTTPTimeout time.Duration
	// RetryMax: transport retries for 5xx, 429 and connection errors.
	RetryMax int
	// RetryWaitMin / RetryWaitMax: backoff bounds, applied when RetryMax > 0.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RateLimit: maximum requests per second; zero disables limiting.
	RateLimit float64
	// RateBurst: burst allowed by RateLimit; defaults to 1.
	RateBurst int
	// HTTPClient replaces the default transport entirely. Retry and rate limit
	// settings are ignored when it is set.
	HTTPClient HTTPDoer

	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the executor and transport.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Instrumentation receives per-call timing events.
	Instrumentation Instrumentation
}
