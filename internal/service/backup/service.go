package backup

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/sc-tools/sc-backup/internal/client/ytdlp"
	"github.com/sc-tools/sc-backup/internal/config"
	"github.com/sc-tools/sc-backup/internal/constants"
	"github.com/sc-tools/sc-backup/internal/logger"
	"github.com/sc-tools/sc-backup/internal/utils"
)

// ErrBackupFailed indicates that at least one profile backup failed.
var ErrBackupFailed = errors.New("backup finished with errors")

// audioExtensions lists the file extensions counted as backed-up tracks.
//
//nolint:gochecknoglobals // This is an immutable lookup table used as a constant.
var audioExtensions = map[string]struct{}{
	constants.ExtensionMP3:  {},
	constants.ExtensionFLAC: {},
	constants.ExtensionOpus: {},
	constants.ExtensionM4A:  {},
}

// Service provides methods for backing up the likes listings of profiles.
type Service interface {
	// BackupProfiles runs the full backup pipeline for the given profile names.
	// It returns ErrBackupFailed when any profile could not be backed up.
	BackupProfiles(ctx context.Context, profiles []string) error
	// PrintBackupSummary prints a formatted summary of the run.
	PrintBackupSummary(ctx context.Context)
}

// ServiceImpl implements the likes backup service.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// client invokes the yt-dlp binary.
	client ytdlp.Client
	// stats tracks run statistics.
	stats *BackupStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
}

// NewService creates a backup service instance with dependency-injected components.
func NewService(cfg *config.Config, client ytdlp.Client) Service {
	return &ServiceImpl{
		cfg:        cfg,
		client:     client,
		stats:      new(BackupStatistics),
		statsMutex: new(sync.Mutex),
	}
}

// BackupProfiles runs the full backup pipeline for the given profile names.
func (s *ServiceImpl) BackupProfiles(ctx context.Context, profiles []string) error {
	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.stats.IsDryRun = s.cfg.DryRun
	s.statsMutex.Unlock()

	// Ensure the output directory exists (skip in dry-run mode).
	if !s.cfg.DryRun {
		if err := os.MkdirAll(s.cfg.OutputPath, constants.DefaultFolderPermissions); err != nil {
			return err
		}
	} else {
		logger.Infof(ctx, "[DRY-RUN] Would create output directory: %s", s.cfg.OutputPath)
	}

	// The options record is constructed once per run; every profile uses the same one.
	opts := ytdlp.NewOptions(s.cfg)

	before := s.snapshotOutputDir()

	s.downloadProfiles(ctx, profiles, opts)

	after := s.snapshotOutputDir()

	s.statsMutex.Lock()
	s.stats.FilesAdded = after.files - before.files
	s.stats.BytesAdded = after.bytes - before.bytes
	s.stats.EndTime = time.Now()
	failed := s.stats.ProfilesFailed
	s.statsMutex.Unlock()

	if s.cfg.VerifyDownloads && !s.cfg.DryRun {
		s.verifyOutputDir(ctx)
	}

	if failed > 0 {
		return ErrBackupFailed
	}

	return nil
}

// downloadProfiles hands each profile's likes listing to yt-dlp sequentially.
// Each profile is one blocking delegation; there is no parallel fetching here.
func (s *ServiceImpl) downloadProfiles(ctx context.Context, profiles []string, opts *ytdlp.Options) {
	profilesCount := len(profiles)

	var bar *progressbar.ProgressBar
	if profilesCount > 1 && logger.Level() <= zap.InfoLevel {
		bar = progressbar.Default(int64(profilesCount), "Backing up profiles")
	}

	for index, rawProfile := range profiles {
		// Check if context was canceled (CTRL+C pressed) - stop immediately.
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.backupProfile(ctx, rawProfile, opts, index+1, profilesCount)

		if bar != nil {
			_ = bar.Add(1)
		}

		// Pause between profiles to stay polite with the listing host.
		if index < profilesCount-1 {
			utils.RandomPause(s.cfg.ParsedMinProfilePause, s.cfg.ParsedMaxProfilePause)
		}
	}
}

// backupProfile normalizes one profile name and delegates its likes listing to yt-dlp.
func (s *ServiceImpl) backupProfile(ctx context.Context, rawProfile string, opts *ytdlp.Options, index, total int) {
	profile, err := NormalizeProfile(rawProfile)
	if err != nil {
		logger.Errorf(ctx, "Skipping profile '%s': %v", rawProfile, err)
		s.recordProfileFailed(rawProfile, "", err)

		return
	}

	likesURL := LikesURL(s.cfg.BaseURL, profile)

	if s.cfg.DryRun {
		logger.Infof(ctx, "[DRY-RUN] Would back up likes listing: %s (%d / %d)", likesURL, index, total)
	} else {
		logger.Infof(ctx, "Backing up likes listing: %s (%d / %d)", likesURL, index, total)
	}

	if err = s.client.Download(ctx, likesURL, opts); err != nil {
		// Download failures propagate as-is: no retries, no partial-success tracking.
		logger.Errorf(ctx, "Failed to back up profile '%s': %v", profile, err)
		s.recordProfileFailed(profile, likesURL, err)

		return
	}

	s.recordProfileDownloaded()
}

// recordProfileDownloaded increments the downloaded profiles counter.
func (s *ServiceImpl) recordProfileDownloaded() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.ProfilesDownloaded++
	s.stats.ProfilesProcessed++
}

// recordProfileFailed increments the failed profiles counter with details.
func (s *ServiceImpl) recordProfileFailed(profile, url string, err error) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.ProfilesFailed++
	s.stats.ProfilesProcessed++
	s.stats.Errors = append(s.stats.Errors, BackupError{
		Profile:      profile,
		URL:          url,
		ErrorMessage: err.Error(),
	})
}

// snapshotOutputDir measures the audio files currently present in the output directory.
func (s *ServiceImpl) snapshotOutputDir() outputSnapshot {
	var snapshot outputSnapshot

	_ = filepath.WalkDir(s.cfg.OutputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			//nolint:nilerr // A missing or unreadable entry just isn't counted.
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := audioExtensions[ext]; !ok {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}

		snapshot.files++
		snapshot.bytes += info.Size()

		return nil
	})

	return snapshot
}
