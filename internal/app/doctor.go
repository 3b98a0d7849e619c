package app

import (
	"context"

	"github.com/sc-tools/sc-backup/internal/client/ytdlp"
	"github.com/sc-tools/sc-backup/internal/config"
	"github.com/sc-tools/sc-backup/internal/logger"
	"github.com/sc-tools/sc-backup/internal/service/preflight"
)

// ExecuteDoctorCommand executes the doctor command.
// It runs the external binary checks and reports the yt-dlp version
// without downloading anything.
func ExecuteDoctorCommand(ctx context.Context, cfg *config.Config) {
	logger.Info(ctx, "Checking external dependencies")

	if err := preflight.NewService(cfg).Check(ctx); err != nil {
		logger.Fatalf(ctx, "Preflight check failed: %v", err)
	}

	client, err := ytdlp.NewClient()
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize yt-dlp client: %v", err)
	}

	version, err := client.Version(ctx)
	if err != nil {
		logger.Fatalf(ctx, "Failed to query yt-dlp version: %v", err)
	}

	logger.Infof(ctx, "yt-dlp version: %s", version)
	logger.Info(ctx, "All dependencies are in place!")
}
