// Package lyrics provides timed lyric lines and the active-line resolver.
package lyrics

import "github.com/MemestaVedas/vibe-on-sub002/internal/domain/track"

// Line is a single timed lyric line.
type Line struct {
	Time   float64 // Seconds from track start
	Text   string  // Original text
	Romaji string  // Romanized text (optional)
}

// Identity is the tuple a lyric set is fetched and cached against.
// A set is replaced wholesale whenever this tuple changes.
type Identity struct {
	Artist       string
	Title        string
	DurationSecs float64
	Path         string
}

// IdentityFor builds the lyric identity for a track.
func IdentityFor(t track.Track) Identity {
	return Identity{
		Artist:       t.Artist,
		Title:        t.Title,
		DurationSecs: t.DurationSecs,
		Path:         t.Path,
	}
}

// Equal reports whether two identities refer to the same track.
// Path comparison uses normalized identity.
func (id Identity) Equal(other Identity) bool {
	return id.Artist == other.Artist &&
		id.Title == other.Title &&
		id.DurationSecs == other.DurationSecs &&
		track.SamePath(id.Path, other.Path)
}

// Set is an ordered sequence of timed lines for one track identity,
// ascending by time. Ties are possible.
type Set struct {
	Identity Identity
	Lines    []Line
}

// ActiveIndex returns the index of the line being sung at the given
// position: the largest i such that lines[i].Time <= position, or -1 when
// the position is before every line or the set is empty.
//
// The scan runs backward from the last line. Line counts are small, and
// the backward scan selects the later line on duplicate timestamps without
// any ordering precondition.
func ActiveIndex(lines []Line, position float64) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].Time <= position {
			return i
		}
	}
	return -1
}

// DisplayMode selects which text variant of a line is shown.
// It is process-wide and cycles in a fixed order.
type DisplayMode int

const (
	ModeOriginal DisplayMode = iota // Original text only
	ModeRomaji                      // Romaji only (falls back to original)
	ModeBoth                        // Original and romaji together
)

// String returns the string representation of the mode.
func (m DisplayMode) String() string {
	switch m {
	case ModeOriginal:
		return "original"
	case ModeRomaji:
		return "romaji"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Cycle returns the next mode in the fixed original -> romaji -> both order.
func (m DisplayMode) Cycle() DisplayMode {
	switch m {
	case ModeOriginal:
		return ModeRomaji
	case ModeRomaji:
		return ModeBoth
	default:
		return ModeOriginal
	}
}

// Render returns the line text for the given display mode.
// Lines without romaji always render the original text.
func (l Line) Render(mode DisplayMode) string {
	switch mode {
	case ModeRomaji:
		if l.Romaji != "" {
			return l.Romaji
		}
		return l.Text
	case ModeBoth:
		if l.Romaji != "" {
			return l.Text + " / " + l.Romaji
		}
		return l.Text
	default:
		return l.Text
	}
}
