package backup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sc-tools/sc-backup/internal/utils"
)

// Static error definitions for better error handling.
var (
	// ErrEmptyProfile indicates that the profile name is empty.
	ErrEmptyProfile = errors.New("profile name cannot be empty")
	// ErrInvalidProfile indicates that the profile name is not a valid permalink.
	ErrInvalidProfile = errors.New("invalid profile name")
)

var (
	// profileURLPattern matches profile page URLs and captures the permalink.
	//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
	profileURLPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?soundcloud\.com/(?P<profile>[a-z0-9_-]+)(?:/likes)?/?$`)

	// profileNamePattern matches bare profile permalinks: lowercase letters, digits, underscores, hyphens.
	//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
	profileNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// NormalizeProfile accepts a bare profile name or a profile page URL
// and returns the canonical permalink. Profile input is case-insensitive;
// permalinks are always lowercase.
func NormalizeProfile(input string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", ErrEmptyProfile
	}

	if profile := utils.ExtractNamedGroup(profileURLPattern, "profile", input); profile != "" {
		return profile, nil
	}

	if !profileNamePattern.MatchString(input) {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidProfile, input)
	}

	return input, nil
}

// LikesURL builds the public likes listing URL for a profile.
func LikesURL(baseURL, profile string) string {
	return fmt.Sprintf("%s/%s/likes", strings.TrimRight(baseURL, "/"), profile)
}
