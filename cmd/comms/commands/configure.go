package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/comms-client/internal/auth"
	"github.com/fivetwenty-io/comms-client/internal/constants"
)

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	var profile auth.Profile

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store credentials for a profile",
		Long: `Store an access key pair, and optionally a default endpoint and region, in
the credentials file under the profile selected by --profile.

Values not given as flags are prompted for. The secret key is read without echo
when stdin is a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, profile)
		},
	}

	cmd.Flags().StringVar(&profile.AccessKeyID, "access-key-id", "", "access key ID")
	cmd.Flags().StringVar(&profile.SecretAccessKey, "secret-access-key", "", "secret access key")
	cmd.Flags().StringVar(&profile.SessionToken, "session-token", "", "session token for temporary credentials")
	cmd.Flags().StringVar(&profile.Endpoint, "default-endpoint", "", "endpoint stored with the profile")
	cmd.Flags().StringVar(&profile.Region, "default-region", "", "region stored with the profile")

	return cmd
}

func runConfigure(cmd *cobra.Command, profile auth.Profile) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	var err error

	if profile.AccessKeyID == "" {
		profile.AccessKeyID, err = prompt(reader, out, "Access key ID: ")
		if err != nil {
			return err
		}
	}

	if profile.SecretAccessKey == "" {
		profile.SecretAccessKey, err = promptSecret(cmd, reader, out, "Secret access key: ")
		if err != nil {
			return err
		}
	}

	if profile.AccessKeyID == "" || profile.SecretAccessKey == "" {
		return constants.ErrNoCredentialsInFile
	}

	provider := auth.NewFileProvider(viper.GetString(keyCredentialsFile), viper.GetString(keyProfile))

	if err := provider.SaveProfile(provider.ProfileName(), &profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Saved profile %q to %s\n", provider.ProfileName(), provider.Path())

	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	_, _ = io.WriteString(out, label)

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when the command reads from the real terminal.
func promptSecret(cmd *cobra.Command, reader *bufio.Reader, out io.Writer, label string) (string, error) {
	if cmd.InOrStdin() != os.Stdin || !term.IsTerminal(int(syscall.Stdin)) {
		return prompt(reader, out, label)
	}

	_, _ = io.WriteString(out, label)

	secret, err := term.ReadPassword(int(syscall.Stdin))

	_, _ = io.WriteString(out, "\n")

	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}
