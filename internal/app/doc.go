// Package app provides the main application logic for backing up SoundCloud likes.
// It wires together the preflight checks, the yt-dlp client, and the backup
// service, and orchestrates a run from profile list to printed summary.
package app
