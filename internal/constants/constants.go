package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and credentials files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits. Retries are a transport concern and are off unless configured.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Service defaults.
const (
	// DefaultEndpoint is the public control-plane endpoint.
	DefaultEndpoint = "https://service.chime.aws.amazon.com"

	// DefaultRegion is the signing region of the control plane.
	DefaultRegion = "us-east-1"

	// DefaultSigningName is the SigV4 service name.
	DefaultSigningName = "chime"

	// DefaultUserAgent is sent when no User-Agent is configured.
	DefaultUserAgent = "comms-client-go/1.0"

	// DefaultProfile is the credentials profile used when none is named.
	DefaultProfile = "default"
)

// HTTP header names.
const (
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"
	HeaderInvocationID  = "Amz-Sdk-Invocation-Id"
	HeaderRequestID     = "X-Amzn-RequestId"
	HeaderErrorType     = "X-Amzn-ErrorType"
	ContentTypeJSON     = "application/json"
	AuthorizationScheme = "AWS4-HMAC-SHA256"
)

// Environment variables read by the credential providers and the CLI.
const (
	EnvAccessKeyID        = "COMMS_ACCESS_KEY_ID"
	EnvSecretAccessKey    = "COMMS_SECRET_ACCESS_KEY"
	EnvSessionToken       = "COMMS_SESSION_TOKEN"
	EnvAWSAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvAWSSessionToken    = "AWS_SESSION_TOKEN"
	EnvCredentialsFile    = "COMMS_SHARED_CREDENTIALS_FILE"
	EnvProfile            = "COMMS_PROFILE"
)

// Pagination.
const (
	// StandardPageSize is the default MaxResults for list calls.
	StandardPageSize = 50

	// MaxPages bounds CollectAll so a misbehaving server cannot loop forever.
	MaxPages = 1000
)

// Error body handling.
const (
	// MaxErrorMessageLength truncates raw bodies used as generic error messages.
	MaxErrorMessageLength = 512
)

// Output formats for the CLI.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)
