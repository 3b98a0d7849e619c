package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sc-tools/sc-backup/internal/client/ytdlp"
	"github.com/sc-tools/sc-backup/internal/config"
	"github.com/sc-tools/sc-backup/internal/logger"
	"github.com/sc-tools/sc-backup/internal/service/backup"
	"github.com/sc-tools/sc-backup/internal/service/preflight"
	"github.com/sc-tools/sc-backup/internal/utils"
)

// ExecuteRootCommand is the entry point for the application.
// It checks the required external binaries, initializes the yt-dlp client,
// and backs up the likes listing of every requested profile.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config) {
	ctx = logger.WithFields(ctx, zap.String("run_id", uuid.NewString()))

	if err := preflight.NewService(cfg).Check(ctx); err != nil {
		logger.Fatalf(ctx, "Preflight check failed: %v", err)
	}

	client, err := ytdlp.NewClient()
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize yt-dlp client: %v", err)
	}

	profiles := collectProfiles(ctx, cfg)
	s := backup.NewService(cfg, client)

	if err = runBackup(ctx, s, profiles); err != nil {
		logger.Fatalf(ctx, "Backup finished with errors: %v", err)
	}
}

// runBackup drives the backup and ensures statistics are ALWAYS printed,
// even when a panic interrupts the run.
func runBackup(ctx context.Context, s backup.Service, profiles []string) error {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintBackupSummary(ctx)
	}()

	return s.BackupProfiles(ctx, profiles)
}

// collectProfiles assembles the profile list from the configured username
// and the optional batch file, preserving order and dropping duplicates.
func collectProfiles(ctx context.Context, cfg *config.Config) []string {
	var profiles []string

	seen := make(map[string]struct{})

	appendProfile := func(profile string) {
		if _, ok := seen[profile]; ok {
			return
		}

		seen[profile] = struct{}{}

		profiles = append(profiles, profile)
	}

	if cfg.Username != "" {
		appendProfile(cfg.Username)
	}

	if cfg.ProfilesFile != "" {
		exists, err := utils.IsFileExist(cfg.ProfilesFile)
		if err != nil || !exists {
			logger.Fatalf(ctx, "Profiles file does not exist: %s", cfg.ProfilesFile)
		}

		fromFile, err := utils.ReadUniqueLinesFromFile(cfg.ProfilesFile)
		if err != nil {
			logger.Fatalf(ctx, "Failed to read profiles file %s: %v", cfg.ProfilesFile, err)
		}

		for _, profile := range fromFile {
			appendProfile(profile)
		}
	}

	return profiles
}
