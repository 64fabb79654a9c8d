package commsclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/comms-client/internal/client"
	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// New creates a client from config. config is copied; the caller's value is
// never modified.
func New(config *comms.Config) (comms.Client, error) {
	if config == nil {
		return nil, comms.ErrConfigRequired
	}

	normalized := *config

	endpoint, err := NormalizeEndpoint(normalized.Endpoint)
	if err != nil {
		return nil, err
	}

	normalized.Endpoint = endpoint

	if normalized.Region == "" {
		normalized.Region = constants.DefaultRegion
	}

	if normalized.SigningName == "" {
		normalized.SigningName = constants.DefaultSigningName
	}

	if normalized.RetryMax > 0 && normalized.RetryWaitMax == 0 {
		normalized.RetryWaitMax = constants.DefaultRetryWaitMax
	}

	if normalized.HTTPTimeout == 0 {
		normalized.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	c, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NormalizeEndpoint returns endpoint with a scheme and without a trailing
// slash. An empty endpoint yields the public default.
func NormalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return constants.DefaultEndpoint, nil
	}

	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", comms.ErrEndpointRequired, endpoint)
	}

	return endpoint, nil
}

// NewWithStaticCredentials creates a client signing every call with one key pair.
func NewWithStaticCredentials(endpoint, accessKeyID, secretAccessKey string) (comms.Client, error) {
	return New(&comms.Config{
		Endpoint:        endpoint,
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
	})
}

// NewWithProfile creates a client reading credentials from the environment,
// then from profile in the shared credentials file.
func NewWithProfile(endpoint, profile string) (comms.Client, error) {
	return New(&comms.Config{
		Endpoint: endpoint,
		Profile:  profile,
	})
}
