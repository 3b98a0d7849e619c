package backup

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/oshokin/id3v2/v2"

	"github.com/sc-tools/sc-backup/internal/constants"
	"github.com/sc-tools/sc-backup/internal/logger"
)

// verifyOutputDir inspects every backed-up audio file and reports missing metadata.
// The pass is read-only: embedding is yt-dlp's job, this only checks its work.
func (s *ServiceImpl) verifyOutputDir(ctx context.Context) {
	logger.Info(ctx, "Verifying embedded metadata")

	_ = filepath.WalkDir(s.cfg.OutputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			//nolint:nilerr // A missing or unreadable entry is simply skipped.
			return nil
		}

		missing, verifyErr := s.verifyFile(path)
		if verifyErr != nil {
			logger.Warnf(ctx, "Could not verify %s: %v", path, verifyErr)
			return nil
		}

		if missing == nil {
			// Unsupported extension, nothing to check.
			return nil
		}

		s.recordFileVerified(len(missing) > 0)

		if len(missing) > 0 {
			logger.Warnf(ctx, "Missing metadata in %s: %s", path, strings.Join(missing, ", "))
		}

		return nil
	})
}

// verifyFile checks the embedded tags of a single audio file.
// It returns the list of missing pieces, or nil when the format is not checked.
func (s *ServiceImpl) verifyFile(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case constants.ExtensionMP3:
		return s.verifyMP3Tags(path)
	case constants.ExtensionFLAC:
		return s.verifyFLACTags(path)
	default:
		// Opus and M4A tags are not inspected; yt-dlp still embeds them.
		return nil, nil
	}
}

// verifyMP3Tags checks ID3v2 artist and title frames, and the attached picture
// when thumbnail embedding was requested.
func (s *ServiceImpl) verifyMP3Tags(path string) ([]string, error) {
	tag, err := id3v2.Open(filepath.Clean(path), id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}

	defer tag.Close() //nolint:errcheck // Read-only access, close error is not critical.

	missing := []string{}

	if strings.TrimSpace(tag.Artist()) == "" {
		missing = append(missing, "artist")
	}

	if strings.TrimSpace(tag.Title()) == "" {
		missing = append(missing, "title")
	}

	if s.cfg.EmbedThumbnail {
		pictures := tag.GetFrames(tag.CommonID("Attached picture"))
		if len(pictures) == 0 {
			missing = append(missing, "thumbnail")
		}
	}

	return missing, nil
}

// verifyFLACTags checks Vorbis comment ARTIST and TITLE fields, and the picture
// metadata block when thumbnail embedding was requested.
func (s *ServiceImpl) verifyFLACTags(path string) ([]string, error) {
	f, err := flac.ParseFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var (
		comment    *flacvorbis.MetaDataBlockVorbisComment
		hasPicture bool
	)

	for _, meta := range f.Meta {
		switch meta.Type {
		case flac.VorbisComment:
			if parsed, parseErr := flacvorbis.ParseFromMetaDataBlock(*meta); parseErr == nil {
				comment = parsed
			}
		case flac.Picture:
			if _, parseErr := flacpicture.ParseFromMetaDataBlock(*meta); parseErr == nil {
				hasPicture = true
			}
		}
	}

	missing := []string{}

	if !hasVorbisField(comment, flacvorbis.FIELD_ARTIST) {
		missing = append(missing, "artist")
	}

	if !hasVorbisField(comment, flacvorbis.FIELD_TITLE) {
		missing = append(missing, "title")
	}

	if s.cfg.EmbedThumbnail && !hasPicture {
		missing = append(missing, "thumbnail")
	}

	return missing, nil
}

// hasVorbisField reports whether a Vorbis comment block carries a non-empty field.
func hasVorbisField(comment *flacvorbis.MetaDataBlockVorbisComment, field string) bool {
	if comment == nil {
		return false
	}

	values, err := comment.Get(field)
	if err != nil || len(values) == 0 {
		return false
	}

	return strings.TrimSpace(values[0]) != ""
}

// recordFileVerified updates verification statistics.
func (s *ServiceImpl) recordFileVerified(hasMissingTags bool) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.FilesVerified++

	if hasMissingTags {
		s.stats.FilesMissingTags++
	}
}
