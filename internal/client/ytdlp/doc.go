// Package ytdlp wraps the external yt-dlp binary, which this tool delegates
// all fetching, transcoding, and tag embedding to.
// It builds the argument vector from an options record and runs the binary
// as a subprocess; no network or media handling happens in this package.
package ytdlp
