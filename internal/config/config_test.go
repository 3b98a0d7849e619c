package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/sc-tools/sc-backup/internal/constants"
)

// TestConfigStruct tests the Config struct fields.
func TestConfigStruct(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Username:           "some-artist",
		ProfilesFile:       "/tmp/profiles.txt",
		OutputPath:         "/tmp/downloads",
		OutputTemplate:     "%(uploader)s/%(title)s.%(ext)s",
		AudioFormat:        "mp3",
		AudioQuality:       0,
		EmbedThumbnail:     true,
		EmbedMetadata:      true,
		DownloadSpeedLimit: "1MB",
		VerifyDownloads:    true,
		MinProfilePause:    "1s",
		MaxProfilePause:    "3s",
		LogLevel:           "info",
	}

	assert.Equal(t, "some-artist", cfg.Username)
	assert.Equal(t, "/tmp/profiles.txt", cfg.ProfilesFile)
	assert.Equal(t, "/tmp/downloads", cfg.OutputPath)
	assert.Equal(t, "%(uploader)s/%(title)s.%(ext)s", cfg.OutputTemplate)
	assert.Equal(t, "mp3", cfg.AudioFormat)
	assert.Equal(t, uint8(0), cfg.AudioQuality)
	assert.True(t, cfg.EmbedThumbnail)
	assert.True(t, cfg.EmbedMetadata)
	assert.Equal(t, "1MB", cfg.DownloadSpeedLimit)
	assert.True(t, cfg.VerifyDownloads)
	assert.Equal(t, "1s", cfg.MinProfilePause)
	assert.Equal(t, "3s", cfg.MaxProfilePause)
	assert.Equal(t, "info", cfg.LogLevel)
}

// TestConstants tests the constants.
func TestConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://soundcloud.com", BaseURL)
	assert.Equal(t, ".sc-backup.yaml", DefaultConfigFilename)
	assert.Equal(t, "downloads", DefaultOutputPath)
	assert.Equal(t, "mp3", DefaultAudioFormat)
	assert.Equal(t, 10, maxAudioQuality)
}

// TestLoadConfig tests the LoadConfig function.
//
//nolint:tparallel // Not parallel to avoid race conditions on Viper global state.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name           string
		configFilename string
		configContent  string
		expectError    bool
		expectedError  string
		check          func(*testing.T, *Config)
	}{
		{
			name:           "valid config file",
			configFilename: "valid_config.yaml",
			configContent: `
username: "some-artist"
output_path: "/tmp/downloads"
audio_format: "flac"
embed_thumbnail: false
download_speed_limit: "1MB"
log_level: "debug"
`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "some-artist", cfg.Username)
				assert.Equal(t, "/tmp/downloads", cfg.OutputPath)
				assert.Equal(t, "flac", cfg.AudioFormat)
				assert.False(t, cfg.EmbedThumbnail)
				assert.Equal(t, "1MB", cfg.DownloadSpeedLimit)
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
		{
			name:           "missing file falls back to defaults",
			configFilename: "non_existent.yaml",
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Empty(t, cfg.Username)
				assert.Equal(t, DefaultOutputPath, cfg.OutputPath)
				assert.Equal(t, DefaultOutputTemplate, cfg.OutputTemplate)
				assert.Equal(t, DefaultAudioFormat, cfg.AudioFormat)
				assert.True(t, cfg.EmbedThumbnail)
				assert.True(t, cfg.EmbedMetadata)
				assert.Equal(t, DefaultInstallCommand, cfg.InstallCommand)
				assert.Equal(t, "info", cfg.LogLevel)
			},
		},
		{
			name:           "invalid yaml",
			configFilename: "invalid.yaml",
			configContent: `
invalid: yaml: content: [unclosed
`,
			expectError:   true,
			expectedError: "failed to read config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			configPath := filepath.Join(tempDir, tt.configFilename)

			if tt.configContent != "" {
				err := os.WriteFile(configPath, []byte(tt.configContent), constants.DefaultFilePermissions)
				require.NoError(t, err)
			}

			cfg, err := LoadConfig(configPath)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				tt.check(t, cfg)
			}
		})
	}
}

// TestValidateConfig tests the ValidateConfig function.
//
//nolint:tparallel // Not parallel to avoid race conditions on Viper global state.
func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			config: &Config{
				Username:           "some-artist",
				AudioFormat:        "mp3",
				DownloadSpeedLimit: "1MB",
				LogLevel:           "info",
			},
			expectError: false,
		},
		{
			name: "profiles file only is enough",
			config: &Config{
				ProfilesFile: "/tmp/profiles.txt",
				AudioFormat:  "mp3",
				LogLevel:     "info",
			},
			expectError: false,
		},
		{
			name: "missing profile source",
			config: &Config{
				AudioFormat: "mp3",
				LogLevel:    "info",
			},
			expectError: true,
			errorMsg:    "profile name must be provided",
		},
		{
			name: "whitespace username counts as missing",
			config: &Config{
				Username:    "   ",
				AudioFormat: "mp3",
				LogLevel:    "info",
			},
			expectError: true,
			errorMsg:    "profile name must be provided",
		},
		{
			name: "unknown audio format",
			config: &Config{
				Username:    "some-artist",
				AudioFormat: "wav",
				LogLevel:    "info",
			},
			expectError: true,
			errorMsg:    "unknown audio format",
		},
		{
			name: "audio format is normalized",
			config: &Config{
				Username:    "some-artist",
				AudioFormat: " FLAC ",
				LogLevel:    "info",
			},
			expectError: false,
		},
		{
			name: "invalid audio quality",
			config: &Config{
				Username:     "some-artist",
				AudioFormat:  "mp3",
				AudioQuality: 11,
				LogLevel:     "info",
			},
			expectError: true,
			errorMsg:    "invalid audio quality",
		},
		{
			name: "invalid log level",
			config: &Config{
				Username:    "some-artist",
				AudioFormat: "mp3",
				LogLevel:    "whisper",
			},
			expectError: true,
			errorMsg:    "unknown log level",
		},
		{
			name: "invalid download speed limit",
			config: &Config{
				Username:           "some-artist",
				AudioFormat:        "mp3",
				DownloadSpeedLimit: "invalid",
				LogLevel:           "info",
			},
			expectError: true,
			errorMsg:    "failed to parse download speed limit:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateConfig(tt.config)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				// Check that derived values are set correctly.
				assert.Equal(t, BaseURL, tt.config.BaseURL)
				assert.Equal(t, zapcore.InfoLevel, tt.config.ParsedLogLevel)
				assert.Contains(t, knownAudioFormats, tt.config.AudioFormat)
			}
		})
	}
}

// TestValidateConfig_DownloadSpeedLimit tests download speed limit parsing.
//
//nolint:tparallel // Not parallel to avoid race conditions on Viper global state.
func TestValidateConfig_DownloadSpeedLimit(t *testing.T) {
	tests := []struct {
		name          string
		speedLimit    string
		expectedBytes int64
	}{
		{
			name:          "empty limit",
			speedLimit:    "",
			expectedBytes: 0,
		},
		{
			name:          "zero limit",
			speedLimit:    "0",
			expectedBytes: 0,
		},
		{
			name:          "1KB limit",
			speedLimit:    "1KB",
			expectedBytes: 1000,
		},
		{
			name:          "1MB limit",
			speedLimit:    "1MB",
			expectedBytes: 1000000,
		},
		{
			name:          "500KB limit",
			speedLimit:    "500KB",
			expectedBytes: 500000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config := &Config{
				Username:           "some-artist",
				AudioFormat:        "mp3",
				DownloadSpeedLimit: tt.speedLimit,
				LogLevel:           "info",
			}

			err := ValidateConfig(config)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBytes, config.ParsedDownloadSpeedLimit)
		})
	}
}

// TestValidateConfig_ProfilePauses tests the pause bounds used in batch mode.
//
//nolint:tparallel // Not parallel to avoid race conditions on Viper global state.
func TestValidateConfig_ProfilePauses(t *testing.T) {
	tests := []struct {
		name        string
		minPause    string
		maxPause    string
		expectedMin time.Duration
		expectedMax time.Duration
		expectError bool
		errorMsg    string
	}{
		{
			name: "no pauses configured",
		},
		{
			name:        "valid pause range",
			minPause:    "1s",
			maxPause:    "3s",
			expectedMin: time.Second,
			expectedMax: 3 * time.Second,
		},
		{
			name:        "unparseable min pause",
			minPause:    "soon",
			expectError: true,
			errorMsg:    "failed to parse min profile pause:",
		},
		{
			name:        "non-positive min pause",
			minPause:    "-1s",
			expectError: true,
			errorMsg:    "min_profile_pause must be positive",
		},
		{
			name:        "non-positive max pause",
			maxPause:    "0s",
			expectError: true,
			errorMsg:    "max_profile_pause must be positive",
		},
		{
			name:        "max pause below min pause",
			minPause:    "5s",
			maxPause:    "2s",
			expectError: true,
			errorMsg:    "max_profile_pause must not be lower than min_profile_pause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config := &Config{
				Username:        "some-artist",
				AudioFormat:     "mp3",
				LogLevel:        "info",
				MinProfilePause: tt.minPause,
				MaxProfilePause: tt.maxPause,
			}

			err := ValidateConfig(config)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedMin, config.ParsedMinProfilePause)
				assert.Equal(t, tt.expectedMax, config.ParsedMaxProfilePause)
			}
		})
	}
}

// TestSaveConfig tests that saving rewrites only the username and preserves key order.
//
//nolint:tparallel // Not parallel: SaveConfig resolves the file path through Viper global state.
func TestSaveConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `# backup settings
output_path: "/tmp/downloads"
username: "old-user"
audio_format: "mp3"
log_level: "info"
`

	err := os.WriteFile(configPath, []byte(configContent), constants.DefaultFilePermissions)
	require.NoError(t, err)

	// LoadConfig registers the file path with Viper for SaveConfig.
	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	cfg.Username = "new-user"
	require.NoError(t, SaveConfig(cfg))

	saved, err := os.ReadFile(configPath)
	require.NoError(t, err)

	savedStr := string(saved)
	assert.Contains(t, savedStr, `username: "new-user"`)
	assert.NotContains(t, savedStr, "old-user")

	// Key order must survive the rewrite.
	outputIndex := strings.Index(savedStr, "output_path")
	usernameIndex := strings.Index(savedStr, "username")
	formatIndex := strings.Index(savedStr, "audio_format")
	require.True(t, outputIndex >= 0 && usernameIndex >= 0 && formatIndex >= 0)
	assert.Less(t, outputIndex, usernameIndex)
	assert.Less(t, usernameIndex, formatIndex)
}

// TestSaveConfig_AppendsMissingUsername tests that a config without a username gains one.
//
//nolint:tparallel // Not parallel: SaveConfig resolves the file path through Viper global state.
func TestSaveConfig_AppendsMissingUsername(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `output_path: "/tmp/downloads"
audio_format: "mp3"
`

	err := os.WriteFile(configPath, []byte(configContent), constants.DefaultFilePermissions)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	cfg.Username = "fresh-user"
	require.NoError(t, SaveConfig(cfg))

	saved, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(saved), `username: "fresh-user"`)
}
