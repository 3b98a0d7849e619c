package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/sc-tools/sc-backup/internal/constants"
	"github.com/sc-tools/sc-backup/internal/logger"
	"github.com/sc-tools/sc-backup/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// Username is the SoundCloud profile whose likes listing is backed up.
	Username string `mapstructure:"username"`
	// ProfilesFile is an optional text file listing one profile name per line.
	ProfilesFile string `mapstructure:"profiles_file"`
	// OutputPath is the directory path where downloaded files will be saved.
	OutputPath string `mapstructure:"output_path"`
	// OutputTemplate is the yt-dlp output template, relative to OutputPath.
	OutputTemplate string `mapstructure:"output_template"`
	// AudioFormat is the target audio container/codec: mp3, flac, opus, or m4a.
	AudioFormat string `mapstructure:"audio_format"`
	// AudioQuality is the converter quality scale (0 = best, 10 = worst).
	AudioQuality uint8 `mapstructure:"audio_quality"`
	// EmbedThumbnail indicates whether the track artwork is embedded into the audio file.
	EmbedThumbnail bool `mapstructure:"embed_thumbnail"`
	// EmbedMetadata indicates whether track metadata tags are embedded into the audio file.
	EmbedMetadata bool `mapstructure:"embed_metadata"`
	// DownloadSpeedLimit sets the maximum download speed (e.g., "1MB", "500KB").
	DownloadSpeedLimit string `mapstructure:"download_speed_limit"`
	// VerifyDownloads enables the post-run tag verification pass.
	VerifyDownloads bool `mapstructure:"verify_downloads"`
	// MinProfilePause is the minimum pause between profiles in batch mode.
	MinProfilePause string `mapstructure:"min_profile_pause"`
	// MaxProfilePause is the maximum pause between profiles in batch mode.
	MaxProfilePause string `mapstructure:"max_profile_pause"`
	// InstallCommand is the command used to install the downloader when it is missing.
	InstallCommand string `mapstructure:"install_command"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// BaseURL is the base URL for profile pages (set automatically).
	BaseURL string
	// DryRun indicates whether to preview downloads without writing any files.
	DryRun bool
	// ParsedDownloadSpeedLimit is the parsed download speed limit in bytes per second.
	ParsedDownloadSpeedLimit int64
	// ParsedMinProfilePause is the parsed minimum pause between profiles.
	ParsedMinProfilePause time.Duration
	// ParsedMaxProfilePause is the parsed maximum pause between profiles.
	ParsedMaxProfilePause time.Duration
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
}

const (
	// BaseURL is the base URL for SoundCloud profile pages.
	BaseURL = "https://soundcloud.com"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".sc-backup.yaml"

	// DefaultOutputPath is the default directory for downloaded tracks.
	DefaultOutputPath = "downloads"

	// DefaultOutputTemplate organizes files into artist-named subdirectories.
	// The placeholders belong to the downloader's own template language.
	DefaultOutputTemplate = "%(uploader)s/%(title)s.%(ext)s"

	// DefaultAudioFormat is the default target audio format.
	DefaultAudioFormat = "mp3"

	// DefaultInstallCommand installs the downloader when it is missing.
	DefaultInstallCommand = "python3 -m pip install --user --upgrade yt-dlp"

	// maxAudioQuality is the worst quality value on the converter's scale.
	maxAudioQuality = 10
)

// knownAudioFormats lists the audio formats the conversion binary is asked to produce.
//
//nolint:gochecknoglobals // This is an immutable lookup table used as a constant.
var knownAudioFormats = map[string]struct{}{
	"mp3":  {},
	"flac": {},
	"opus": {},
	"m4a":  {},
}

// Static error definitions for better error handling.
var (
	// ErrMissingProfile indicates that neither a username nor a profiles file was supplied.
	ErrMissingProfile = errors.New("profile name must be provided via the --username flag, " +
		"the config file, or a profiles file")
	// ErrUnknownAudioFormat indicates that the audio format is not supported.
	ErrUnknownAudioFormat = errors.New("unknown audio format")
	// ErrInvalidAudioQuality indicates that the audio quality is out of range.
	ErrInvalidAudioQuality = errors.New("invalid audio quality")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidMinProfilePause indicates that the min profile pause duration is invalid.
	ErrInvalidMinProfilePause = errors.New("min_profile_pause must be positive")
	// ErrInvalidMaxProfilePause indicates that the max profile pause duration is invalid.
	ErrInvalidMaxProfilePause = errors.New("max_profile_pause must be positive")
	// ErrMaxProfilePauseTooLow indicates that max_profile_pause is lower than min_profile_pause.
	ErrMaxProfilePauseTooLow = errors.New("max_profile_pause must not be lower than min_profile_pause")
)

// setDefaults registers fallback values so the tool works without any config file.
func setDefaults() {
	viper.SetDefault("output_path", DefaultOutputPath)
	viper.SetDefault("output_template", DefaultOutputTemplate)
	viper.SetDefault("audio_format", DefaultAudioFormat)
	viper.SetDefault("audio_quality", 0)
	viper.SetDefault("embed_thumbnail", true)
	viper.SetDefault("embed_metadata", true)
	viper.SetDefault("install_command", DefaultInstallCommand)
	viper.SetDefault("log_level", "info")
}

// LoadConfig loads configuration settings from a YAML file.
// A missing config file is not an error: the profile name may be supplied
// entirely through flags, so defaults are used instead.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	setDefaults()
	viper.SetConfigFile(configFilename)

	err := viper.ReadInConfig()
	if err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err = viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	cfg.Username = strings.TrimSpace(cfg.Username)
	cfg.BaseURL = BaseURL

	if cfg.Username == "" && strings.TrimSpace(cfg.ProfilesFile) == "" {
		return ErrMissingProfile
	}

	audioFormat := strings.ToLower(strings.TrimSpace(cfg.AudioFormat))
	if _, ok := knownAudioFormats[audioFormat]; !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownAudioFormat, cfg.AudioFormat)
	}

	cfg.AudioFormat = audioFormat

	if cfg.AudioQuality > maxAudioQuality {
		return fmt.Errorf("%w: must be between 0 (best) and %d (worst)",
			ErrInvalidAudioQuality, maxAudioQuality)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if err := parseDownloadSpeedLimit(cfg); err != nil {
		return err
	}

	return parseProfilePauses(cfg)
}

// parseDownloadSpeedLimit parses the optional humanized speed limit into bytes per second.
func parseDownloadSpeedLimit(cfg *Config) error {
	downloadSpeedLimit := strings.TrimSpace(cfg.DownloadSpeedLimit)
	if downloadSpeedLimit == "" || downloadSpeedLimit == "0" {
		cfg.ParsedDownloadSpeedLimit = 0
		return nil
	}

	parsed, err := humanize.ParseBytes(downloadSpeedLimit)
	if err != nil {
		return fmt.Errorf("failed to parse download speed limit: %w", err)
	}

	// The yt-dlp rate limit flag takes a byte count, so convert safely.
	cfg.ParsedDownloadSpeedLimit = utils.SafeUint64ToInt64(parsed)

	return nil
}

// parseProfilePauses parses the optional pause bounds between profiles in batch mode.
func parseProfilePauses(cfg *Config) error {
	var err error

	if cfg.MinProfilePause != "" {
		cfg.ParsedMinProfilePause, err = time.ParseDuration(cfg.MinProfilePause)
		if err != nil {
			return fmt.Errorf("failed to parse min profile pause: %w", err)
		}

		if cfg.ParsedMinProfilePause <= 0 {
			return ErrInvalidMinProfilePause
		}
	}

	if cfg.MaxProfilePause != "" {
		cfg.ParsedMaxProfilePause, err = time.ParseDuration(cfg.MaxProfilePause)
		if err != nil {
			return fmt.Errorf("failed to parse max profile pause: %w", err)
		}

		if cfg.ParsedMaxProfilePause <= 0 {
			return ErrInvalidMaxProfilePause
		}

		if cfg.ParsedMaxProfilePause < cfg.ParsedMinProfilePause {
			return ErrMaxProfilePauseTooLow
		}
	}

	return nil
}

// SaveConfig saves the configuration to the file while preserving the original format and order.
func SaveConfig(cfg *Config) error {
	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, cfg.Username, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Update the username value in the node tree.
	updateUsernameInNode(&node, cfg.Username)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	// Write the file back with preserved order.
	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile, username string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// File doesn't exist, create it with viper.
	viper.Set("username", username)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// updateUsernameInNode updates the username value in the YAML node tree.
func updateUsernameInNode(node *yaml.Node, username string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value == "username" {
			// Update the value while preserving style.
			valueNode.Value = username

			// Ensure it's quoted if it contains special characters.
			if valueNode.Style == 0 {
				valueNode.Style = yaml.DoubleQuotedStyle
			}

			return
		}
	}

	// Key not present yet: append it to the end of the mapping.
	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "username"},
		&yaml.Node{Kind: yaml.ScalarNode, Value: username, Style: yaml.DoubleQuotedStyle},
	)
}
