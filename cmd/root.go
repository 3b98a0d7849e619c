package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sc-tools/sc-backup/internal/app"
	"github.com/sc-tools/sc-backup/internal/config"
	"github.com/sc-tools/sc-backup/internal/logger"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "sc-backup [flags]",
		Short: "Back up the public likes of a SoundCloud profile.",
		Long: `sc-backup is a CLI tool that downloads the public likes listing of a
SoundCloud profile as tagged audio files.

All fetching, conversion, and tagging is delegated to the yt-dlp and ffmpeg
binaries. The profile name comes from the --username flag or, when the flag
is omitted, from the configuration file. A batch file can back up several
profiles in one run.`,
		Args:             cobra.NoArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteRootCommand(cmd.Context(), appConfig)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"username",
		"u",
		"",
		"SoundCloud profile whose likes are backed up (overrides the configured value).")

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to save downloaded files (the path will be created if it doesn’t exist).")

	rootCmdFlags.StringP(
		"format",
		"f",
		"",
		"audio format: mp3, flac, opus, or m4a.")

	rootCmdFlags.StringP(
		"batch-file",
		"b",
		"",
		"file containing profile names to back up, one per line.")

	rootCmdFlags.StringP(
		"speed-limit",
		"s",
		"",
		"set download speed limit, for example: 500KB, 1MB, 1.5MB.")

	rootCmdFlags.Bool(
		"dry-run",
		false,
		"preview what would be downloaded without writing any files.")

	rootCmdFlags.Bool(
		"verify",
		false,
		"verify embedded tags of the backed-up files after the run.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	// Validation happens after flag binding, so the level is parsed here
	// to apply verbosity as early as possible.
	if level, ok := logger.ParseLogLevel(appConfig.LogLevel); ok {
		logger.SetLevel(level)
	}
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("username"); flag != nil && flag.Changed {
		cfg.Username, _ = flags.GetString("username")
	}

	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("format"); flag != nil && flag.Changed {
		cfg.AudioFormat, _ = flags.GetString("format")
	}

	if flag := flags.Lookup("batch-file"); flag != nil && flag.Changed {
		cfg.ProfilesFile, _ = flags.GetString("batch-file")
	}

	if flag := flags.Lookup("speed-limit"); flag != nil && flag.Changed {
		cfg.DownloadSpeedLimit, _ = flags.GetString("speed-limit")
	}

	if flag := flags.Lookup("dry-run"); flag != nil && flag.Changed {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}

	if flag := flags.Lookup("verify"); flag != nil && flag.Changed {
		cfg.VerifyDownloads, _ = flags.GetBool("verify")
	}

	return config.ValidateConfig(cfg)
}
