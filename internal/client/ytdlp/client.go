package ytdlp

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sc-tools/sc-backup/internal/logger"
)

// DefaultBinaryName is the name of the downloader executable looked up on PATH.
const DefaultBinaryName = "yt-dlp"

// Client defines the interface for invoking yt-dlp.
type Client interface {
	// Download fetches and converts all tracks behind the URL using the given options.
	// It blocks until yt-dlp exits and returns its failure, if any.
	Download(ctx context.Context, url string, opts *Options) error
	// Version reports the yt-dlp version string.
	Version(ctx context.Context) (string, error)
}

// ClientImpl implements the Client interface by spawning the downloader binary.
type ClientImpl struct {
	// binaryPath is the resolved path of the downloader executable.
	binaryPath string
}

// NewClient resolves the downloader binary on PATH and returns a client for it.
func NewClient() (Client, error) {
	return NewClientWithBinary(DefaultBinaryName)
}

// NewClientWithBinary resolves the given executable name or path and returns a client for it.
func NewClientWithBinary(binary string) (Client, error) {
	binaryPath, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, binary)
	}

	return &ClientImpl{binaryPath: binaryPath}, nil
}

// Download runs the downloader against the URL with the options record.
// The yt-dlp output is streamed through untouched so its
// progress reporting stays visible. Failures are not retried here.
func (c *ClientImpl) Download(ctx context.Context, url string, opts *Options) error {
	if strings.TrimSpace(url) == "" {
		return ErrEmptyURL
	}

	args := append(opts.Args(), url)

	logger.DebugKV(ctx, "Invoking downloader", "binary", c.binaryPath, "args", strings.Join(args, " "))

	//nolint:gosec // The binary path is resolved from PATH and arguments are built internally.
	cmd := exec.CommandContext(ctx, c.binaryPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return fmt.Errorf("%w: %s %s: %w", ErrDownloadFailed, c.binaryPath, url, err)
	}

	return nil
}

// Version reports the yt-dlp version string.
func (c *ClientImpl) Version(ctx context.Context) (string, error) {
	//nolint:gosec // The binary path is resolved from PATH.
	cmd := exec.CommandContext(ctx, c.binaryPath, "--version")

	var out bytes.Buffer

	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to get downloader version: %w", err)
	}

	return strings.TrimSpace(out.String()), nil
}
