package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sc-tools/sc-backup/internal/logger"
)

// summarySeparator visually frames the run summary.
const summarySeparator = "═══════════════════════════════════════════════════════════════"

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// PrintBackupSummary prints a formatted summary of the run.
func (s *ServiceImpl) PrintBackupSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was processed, don't print summary.
	if stats.ProfilesProcessed == 0 {
		return
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted, stats.IsDryRun)
	s.printProfileStatistics(ctx, stats)
	s.printDataStatistics(ctx, stats)
	s.printVerificationStatistics(ctx, stats)
	logger.Info(ctx, summarySeparator)
	s.printErrorDetails(ctx, stats)
	s.printFinalMessage(ctx, wasInterrupted, stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted, isDryRun bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)

	switch {
	case isDryRun:
		logger.Info(ctx, "                  DRY-RUN PREVIEW")
	case wasInterrupted:
		logger.Info(ctx, "           BACKUP SUMMARY (Interrupted)")
	default:
		logger.Info(ctx, "                     BACKUP SUMMARY")
	}

	logger.Info(ctx, summarySeparator)
}

// printProfileStatistics prints per-profile outcome counts.
func (s *ServiceImpl) printProfileStatistics(ctx context.Context, stats *BackupStatistics) {
	logger.Infof(ctx, "Profiles:         %d total", stats.ProfilesProcessed)

	if stats.ProfilesDownloaded > 0 {
		if stats.IsDryRun {
			logger.Infof(ctx, "  Would Back Up:  %d", stats.ProfilesDownloaded)
		} else {
			logger.Infof(ctx, "  Backed Up:      %d", stats.ProfilesDownloaded)
		}
	}

	if stats.ProfilesFailed > 0 {
		logger.Infof(ctx, "  Failed:         %d", stats.ProfilesFailed)
	}
}

// printDataStatistics prints what the run added on disk and how long it took.
func (s *ServiceImpl) printDataStatistics(ctx context.Context, stats *BackupStatistics) {
	if stats.IsDryRun {
		return
	}

	if stats.FilesAdded > 0 {
		logger.Info(ctx, "")
		logger.Infof(ctx, "Tracks Added:     %d", stats.FilesAdded)

		if stats.BytesAdded > 0 {
			//nolint:gosec // BytesAdded is always positive, no overflow risk.
			logger.Infof(ctx, "Data Downloaded:  %s", humanize.Bytes(uint64(stats.BytesAdded)))
		}
	}

	if !stats.StartTime.IsZero() && !stats.EndTime.IsZero() {
		duration := stats.EndTime.Sub(stats.StartTime)

		// Only show if duration is meaningful (> 100ms).
		if duration > 100*time.Millisecond {
			logger.Infof(ctx, "Duration:         %s", formatDuration(duration))
		}
	}
}

// printVerificationStatistics prints the tag verification outcome.
func (s *ServiceImpl) printVerificationStatistics(ctx context.Context, stats *BackupStatistics) {
	if stats.FilesVerified == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Infof(ctx, "Files Verified:   %d", stats.FilesVerified)

	if stats.FilesMissingTags > 0 {
		logger.Infof(ctx, "  Missing Tags:   %d", stats.FilesMissingTags)
	}
}

// printErrorDetails prints detailed error information if any errors occurred.
func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *BackupStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Errorf(ctx, "ERRORS ENCOUNTERED: %d", len(stats.Errors))

	for i := range stats.Errors {
		logger.Info(ctx, "")
		logger.Errorf(ctx, "  [%d] Profile: %s", i+1, stats.Errors[i].Profile)

		if stats.Errors[i].URL != "" {
			logger.Errorf(ctx, "      URL: %s", stats.Errors[i].URL)
		}

		logger.Errorf(ctx, "      Error: %s", stats.Errors[i].ErrorMessage)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)
}

// printFinalMessage prints the closing line based on the run outcome.
// On a fully successful run this is the fixed completion message, printed once.
func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *BackupStatistics) {
	if stats.IsDryRun {
		logger.Info(ctx, "")
		logger.Info(ctx, "To proceed with actual download, remove the --dry-run flag.")

		return
	}

	switch {
	case wasInterrupted:
		logger.Info(ctx, "")
		logger.Warn(ctx, "Backup interrupted by user (CTRL+C).")
	case len(stats.Errors) > 0:
		logger.Info(ctx, "")
		logger.Warnf(ctx, "%d error(s) occurred during backup. See detailed error log above.", len(stats.Errors))
	default:
		logger.Info(ctx, "")
		logger.Info(ctx, "Download completed successfully!")
	}
}
