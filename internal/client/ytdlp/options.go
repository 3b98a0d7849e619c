package ytdlp

import (
	"path/filepath"
	"strconv"

	"github.com/sc-tools/sc-backup/internal/config"
)

// Options is the record of recognized downloader settings for a single run.
// It is constructed once per run and translated into the yt-dlp argument
// vector; the set of recognized keys is fixed.
type Options struct {
	// OutputTemplate is the full output path template, including the output directory.
	OutputTemplate string
	// AudioFormat is the target audio container/codec passed to the converter.
	AudioFormat string
	// AudioQuality is the converter quality scale (0 = best, 10 = worst).
	AudioQuality uint8
	// EmbedThumbnail requests track artwork embedding.
	EmbedThumbnail bool
	// EmbedMetadata requests metadata tag embedding.
	EmbedMetadata bool
	// RateLimit caps the download speed in bytes per second (0 = unlimited).
	RateLimit int64
	// Simulate previews the run without downloading or writing files.
	Simulate bool
}

// NewOptions builds the options record from the application configuration.
func NewOptions(cfg *config.Config) *Options {
	return &Options{
		OutputTemplate: filepath.Join(cfg.OutputPath, cfg.OutputTemplate),
		AudioFormat:    cfg.AudioFormat,
		AudioQuality:   cfg.AudioQuality,
		EmbedThumbnail: cfg.EmbedThumbnail,
		EmbedMetadata:  cfg.EmbedMetadata,
		RateLimit:      cfg.ParsedDownloadSpeedLimit,
		Simulate:       cfg.DryRun,
	}
}

// Args translates the options record into the downloader's argument vector.
// The same options always produce the same arguments, in the same order.
func (o *Options) Args() []string {
	args := []string{
		"--extract-audio",
		"--audio-format", o.AudioFormat,
		"--audio-quality", strconv.Itoa(int(o.AudioQuality)),
	}

	if o.EmbedThumbnail {
		args = append(args, "--embed-thumbnail")
	}

	if o.EmbedMetadata {
		args = append(args, "--add-metadata")
	}

	args = append(args,
		"--output", o.OutputTemplate,
		"--no-playlist-reverse",
	)

	if o.RateLimit > 0 {
		args = append(args, "--limit-rate", strconv.FormatInt(o.RateLimit, 10))
	}

	if o.Simulate {
		args = append(args, "--simulate")
	}

	return args
}
