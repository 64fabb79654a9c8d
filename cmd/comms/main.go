package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/comms-client/cmd/comms/commands"
	"github.com/fivetwenty-io/comms-client/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "comms",
	Short: "Communications control plane CLI",
	Long: `A command-line interface for the communications control plane.

Manage accounts, users, meetings, phone numbers and voice connectors. Requests
are signed with the credentials of the selected profile, the environment, or
the config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.comms/config.yml)")
	rootCmd.PersistentFlags().StringP("endpoint", "e", "", "control plane endpoint URL")
	rootCmd.PersistentFlags().StringP("region", "r", "", "signing region")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "credentials profile")
	rootCmd.PersistentFlags().String("credentials-file", "", "credentials file (default is $HOME/.comms/credentials.yml)")
	rootCmd.PersistentFlags().StringP("output", "o", constants.OutputFormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log requests and call timings to stderr")
	rootCmd.PersistentFlags().Bool("timings", false, "print per-operation call totals to stderr")
	rootCmd.PersistentFlags().String("nats-url", "", "publish call events to this NATS server")
	rootCmd.PersistentFlags().Int("retry-max", 0, "transport retries for throttling and server errors")
	rootCmd.PersistentFlags().Float64("rate-limit", 0, "maximum requests per second (0 disables)")
	rootCmd.PersistentFlags().Int("concurrency", 0, "parallel requests for multi-ID commands")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("credentials_file", rootCmd.PersistentFlags().Lookup("credentials-file"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("timings", rootCmd.PersistentFlags().Lookup("timings"))
	_ = viper.BindPFlag("nats_url", rootCmd.PersistentFlags().Lookup("nats-url"))
	_ = viper.BindPFlag("retry_max", rootCmd.PersistentFlags().Lookup("retry-max"))
	_ = viper.BindPFlag("rate_limit", rootCmd.PersistentFlags().Lookup("rate-limit"))
	_ = viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigureCommand())
	rootCmd.AddCommand(commands.NewAccountsCommand())
	rootCmd.AddCommand(commands.NewUsersCommand())
	rootCmd.AddCommand(commands.NewMeetingsCommand())
	rootCmd.AddCommand(commands.NewPhoneNumbersCommand())
	rootCmd.AddCommand(commands.NewVoiceConnectorsCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".comms")
		if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		// Search config in ~/.comms/config.yml
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// COMMS_ENDPOINT, COMMS_REGION, COMMS_ACCESS_KEY_ID and so on
	viper.SetEnvPrefix("COMMS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
