package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

// setupViper points the global viper at endpoint with static test credentials.
// Tests using it must not run in parallel.
func setupViper(t *testing.T, endpoint string) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set(keyEndpoint, endpoint)
	viper.Set(keyRegion, "us-east-1")
	viper.Set(keyAccessKeyID, "AKIDCLI")
	viper.Set(keySecretAccessKey, "secret")
	viper.Set(keyCredentialsFile, filepath.Join(t.TempDir(), "credentials.yml"))
	viper.Set(keyOutput, "table")
}

// runCommand executes cmd with args and returns stdout and stderr.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func writeJSON(t *testing.T, writer http.ResponseWriter, status int, payload interface{}) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	writer.Header().Set("X-Amzn-RequestId", "req-cli")
	writer.WriteHeader(status)

	assert.NoError(t, json.NewEncoder(writer).Encode(payload))
}

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}
