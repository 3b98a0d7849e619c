package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sc-tools/sc-backup/internal/app"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	rememberCmd = &cobra.Command{
		Use:   "remember {username}",
		Short: "Save a profile name to the configuration file",
		Long: `Saves the given profile name as the default username in the
configuration file, so later runs can omit the --username flag.

The argument can be a bare profile name or a profile URL:

sc-backup remember some-artist
sc-backup remember https://soundcloud.com/some-artist/likes`,
		Args:             cobra.ExactArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteRememberCommand(cmd.Context(), appConfig, args[0])
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(rememberCmd)
}
