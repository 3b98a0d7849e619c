package app

import (
	"context"

	"github.com/sc-tools/sc-backup/internal/config"
	"github.com/sc-tools/sc-backup/internal/logger"
	"github.com/sc-tools/sc-backup/internal/service/backup"
)

// ExecuteRememberCommand executes the remember command.
// It normalizes the given profile and saves it to the configuration file
// so subsequent runs can omit the --username flag.
func ExecuteRememberCommand(ctx context.Context, cfg *config.Config, rawProfile string) {
	profile, err := backup.NormalizeProfile(rawProfile)
	if err != nil {
		logger.Fatalf(ctx, "Invalid profile %q: %v", rawProfile, err)
		return
	}

	cfg.Username = profile

	if err = config.SaveConfig(cfg); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
		return
	}

	logger.Info(ctx, "Configuration updated successfully!")
	logger.Infof(ctx, "Profile %q is now the default. Back up its likes with:", profile)
	logger.Info(ctx, "sc-backup")
}
