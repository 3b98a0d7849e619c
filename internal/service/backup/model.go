package backup

import "time"

// BackupStatistics tracks the outcome of a single run.
type BackupStatistics struct {
	// StartTime is when the run started.
	StartTime time.Time
	// EndTime is when the run finished.
	EndTime time.Time
	// IsDryRun indicates whether the run was a preview.
	IsDryRun bool
	// ProfilesProcessed is the total number of profiles handled.
	ProfilesProcessed int64
	// ProfilesDownloaded is the number of profiles backed up without failure.
	ProfilesDownloaded int64
	// ProfilesFailed is the number of profiles whose backup failed.
	ProfilesFailed int64
	// FilesAdded is the number of audio files that appeared in the output directory.
	FilesAdded int64
	// BytesAdded is the total size of audio files that appeared in the output directory.
	BytesAdded int64
	// FilesVerified is the number of audio files inspected by the verification pass.
	FilesVerified int64
	// FilesMissingTags is the number of verified files with missing metadata.
	FilesMissingTags int64
	// Errors holds per-profile failure details.
	Errors []BackupError
}

// BackupError describes a failed profile backup.
type BackupError struct {
	// Profile is the normalized profile name.
	Profile string
	// URL is the likes listing URL that was handed to yt-dlp.
	URL string
	// ErrorMessage is the failure description.
	ErrorMessage string
}

// outputSnapshot captures the audio file count and total size of the output directory.
// Diffing two snapshots yields what a run added, since yt-dlp owns all writes.
type outputSnapshot struct {
	// files is the number of audio files present.
	files int64
	// bytes is the total size of audio files present.
	bytes int64
}
