package commands

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/comms-client/internal/auth"
	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

func TestConfigure_Prompts(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "nested", "credentials.yml")
	viper.Set(keyCredentialsFile, path)
	viper.Set(keyProfile, "work")

	cmd := NewConfigureCommand()
	cmd.SetIn(strings.NewReader("AKIDPROMPT\n  s3cret  \n"))

	stdout, _, err := runCommand(t, cmd, "--default-region", "eu-central-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Access key ID: ")
	assert.Contains(t, stdout, `Saved profile "work"`)

	profile, err := auth.NewFileProvider(path, "work").LoadProfile("work")
	require.NoError(t, err)
	assert.Equal(t, "AKIDPROMPT", profile.AccessKeyID)
	assert.Equal(t, "s3cret", profile.SecretAccessKey)
	assert.Equal(t, "eu-central-1", profile.Region)
}

func TestConfigure_MissingSecret(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set(keyCredentialsFile, filepath.Join(t.TempDir(), "credentials.yml"))

	cmd := NewConfigureCommand()
	cmd.SetIn(strings.NewReader(""))

	_, _, err := runCommand(t, cmd, "--access-key-id", "AKID")
	require.ErrorIs(t, err, constants.ErrNoCredentialsInFile)
}

func TestSession_ProfileDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Contains(t, request.Header.Get("Authorization"), "Credential=AKIDFILE/")
		assert.Contains(t, request.Header.Get("Authorization"), "/ap-northeast-1/chime/aws4_request")

		writeJSON(t, writer, http.StatusOK, map[string]interface{}{"Meetings": []comms.Meeting{}})
	}))
	defer server.Close()

	for _, name := range []string{
		constants.EnvAccessKeyID, constants.EnvSecretAccessKey,
		constants.EnvAWSAccessKeyID, constants.EnvAWSSecretAccessKey,
	} {
		t.Setenv(name, "")
	}

	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "credentials.yml")
	require.NoError(t, auth.NewFileProvider(path, "ci").SaveProfile("ci", &auth.Profile{
		AccessKeyID:     "AKIDFILE",
		SecretAccessKey: "secret",
		Region:          "ap-northeast-1",
		Endpoint:        server.URL,
	}))

	viper.Set(keyCredentialsFile, path)
	viper.Set(keyProfile, "ci")

	stdout, _, err := runCommand(t, NewMeetingsCommand(), "list")
	require.NoError(t, err)
	assert.Equal(t, "No meetings found\n", stdout)
}
