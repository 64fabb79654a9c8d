//go:build integration

package integration

import (
	"os"
	"testing"

	"github.com/fivetwenty-io/comms-client/pkg/comms"
	"github.com/fivetwenty-io/comms-client/pkg/commsclient"
	"github.com/fivetwenty-io/comms-client/pkg/logging"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	Endpoint string
	Region   string
	Profile  string
	Verbose  bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Endpoint: os.Getenv("COMMS_ENDPOINT"),
		Region:   os.Getenv("COMMS_REGION"),
		Profile:  os.Getenv("COMMS_PROFILE"),
		Verbose:  os.Getenv("COMMS_VERBOSE") == "true",
	}
}

// NewClient builds a client for config, skipping the test when no endpoint
// is configured.
func NewClient(t *testing.T, config *TestConfig) comms.Client {
	t.Helper()

	if config.Endpoint == "" {
		t.Skip("COMMS_ENDPOINT not set")
	}

	clientConfig := &comms.Config{
		Endpoint: config.Endpoint,
		Region:   config.Region,
		Profile:  config.Profile,
		RetryMax: 2,
	}

	if config.Verbose {
		clientConfig.Logger = logging.NewConsole(os.Stderr, "debug")
		clientConfig.Debug = true
	}

	client, err := commsclient.New(clientConfig)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return client
}
