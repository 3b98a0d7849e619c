package ytdlp

import "errors"

// Static error definitions for better error handling.
var (
	// ErrBinaryNotFound indicates that the downloader binary is not present on PATH.
	ErrBinaryNotFound = errors.New("downloader binary not found on PATH")
	// ErrDownloadFailed indicates that the downloader exited with a non-zero status.
	ErrDownloadFailed = errors.New("download failed")
	// ErrEmptyURL indicates that no target URL was provided.
	ErrEmptyURL = errors.New("target URL cannot be empty")
)
