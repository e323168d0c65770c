// Package track provides the Track domain entity.
package track

import "strings"

// Track represents a playable item in the library.
// The path is the unique identifier; the canonical copy of the metadata
// lives in the library collection, so a queued Track is an immutable snapshot.
type Track struct {
	Path         string  // Absolute file path (identifier)
	Title        string  // Track title
	Artist       string  // Artist name
	Album        string  // Album name
	DurationSecs float64 // Track duration in seconds
	CoverURL     string  // Cover art reference (optional)
	TitleRomaji  string  // Romanized title (optional)
	ArtistRomaji string  // Romanized artist (optional)
}

// NormalizePath canonicalizes a path identifier for equality checks.
// Different producers reference the same file with mixed separator styles
// and casing, so all separators collapse to "/" and the result is lowered.
func NormalizePath(p string) string {
	return strings.ToLower(strings.ReplaceAll(p, "\\", "/"))
}

// SamePath reports whether two path identifiers refer to the same file
// after normalization.
func SamePath(a, b string) bool {
	return NormalizePath(a) == NormalizePath(b)
}

// SamePath reports whether the track refers to the same file as path.
func (t *Track) SamePath(path string) bool {
	return SamePath(t.Path, path)
}

// DisplayTitle returns the title, falling back to the path when the
// metadata is missing.
func (t *Track) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Path
}
