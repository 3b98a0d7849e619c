package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sc-tools/sc-backup/internal/config"
	"github.com/sc-tools/sc-backup/internal/logger"
)

const (
	// ConverterBinaryName is the name of the conversion binary looked up on PATH.
	ConverterBinaryName = "ffmpeg"

	// DownloaderBinaryName is the name of the yt-dlp binary looked up on PATH.
	DownloaderBinaryName = "yt-dlp"
)

// Static error definitions for better error handling.
var (
	// ErrConverterNotFound indicates that the conversion binary is missing.
	// This is a fatal precondition: audio conversion cannot proceed without it.
	ErrConverterNotFound = errors.New("ffmpeg not found on PATH; " +
		"install it first (e.g. 'apt install ffmpeg' or 'brew install ffmpeg')")
	// ErrDownloaderNotFound indicates that the downloader is missing and could not be installed.
	ErrDownloaderNotFound = errors.New("yt-dlp not found on PATH and automatic installation failed")
	// ErrEmptyInstallCommand indicates that no install command is configured.
	ErrEmptyInstallCommand = errors.New("install command cannot be empty")
)

// Service defines the interface for environment preflight checks.
type Service interface {
	// Check verifies both external binaries, installing the downloader if needed.
	// The converter check runs first and is fatal: nothing may proceed without it.
	Check(ctx context.Context) error
}

// ServiceImpl implements the preflight checks against the real PATH.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
}

// NewService creates a preflight service instance.
func NewService(cfg *config.Config) Service {
	return &ServiceImpl{cfg: cfg}
}

// Check verifies the presence of the conversion and downloading binaries.
func (s *ServiceImpl) Check(ctx context.Context) error {
	// The converter is checked first: without it conversion cannot proceed,
	// so the downloader is not even worth installing.
	converterPath, err := exec.LookPath(ConverterBinaryName)
	if err != nil {
		return ErrConverterNotFound
	}

	logger.Debugf(ctx, "Found converter: %s", converterPath)

	downloaderPath, err := exec.LookPath(DownloaderBinaryName)
	if err == nil {
		logger.Debugf(ctx, "Found downloader: %s", downloaderPath)
		return nil
	}

	logger.Warnf(ctx, "%s is not installed, attempting installation", DownloaderBinaryName)

	if err = s.installDownloader(ctx); err != nil {
		return err
	}

	// Re-check after the install attempt.
	downloaderPath, err = exec.LookPath(DownloaderBinaryName)
	if err != nil {
		return ErrDownloaderNotFound
	}

	logger.Infof(ctx, "Installed downloader: %s", downloaderPath)

	return nil
}

// installDownloader runs the configured install command.
func (s *ServiceImpl) installDownloader(ctx context.Context) error {
	installCommand := strings.TrimSpace(s.cfg.InstallCommand)
	if installCommand == "" {
		return ErrEmptyInstallCommand
	}

	parts := strings.Fields(installCommand)

	logger.Infof(ctx, "Running install command: %s", installCommand)

	//nolint:gosec // The install command comes from the user's own configuration.
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %w", ErrDownloaderNotFound, err)
	}

	return nil
}
