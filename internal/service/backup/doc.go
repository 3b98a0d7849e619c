// Package backup provides the core functionality for backing up the liked
// tracks of public SoundCloud profiles. It normalizes profile names into
// likes listing URLs, delegates the actual fetching and conversion to
// yt-dlp, and reports run statistics and tag verification
// results.
package backup
