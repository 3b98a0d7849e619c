package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sc-tools/sc-backup/internal/app"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	doctorCmd = &cobra.Command{
		Use:   "doctor",
		Short: "Check that the required external binaries are available",
		Long: `Checks the environment without downloading anything.

The doctor command verifies that:
1. ffmpeg is installed and on PATH (required for audio conversion)
2. yt-dlp is installed and on PATH (installed automatically when missing)

It also reports the detected yt-dlp version.`,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteDoctorCommand(cmd.Context(), appConfig)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(doctorCmd)
}
