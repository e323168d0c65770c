// Package player provides the playback status domain types owned by the
// native engine and cached locally by the controller.
package player

import "github.com/MemestaVedas/vibe-on-sub002/internal/domain/track"

// State represents the engine playback state.
type State int

const (
	StateStopped State = iota // No track loaded or playback finished
	StatePlaying              // Track is playing
	StatePaused               // Track is paused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// ParseState parses the wire representation of a state.
// Unknown values map to StateStopped.
func ParseState(s string) State {
	switch s {
	case "playing":
		return StatePlaying
	case "paused":
		return StatePaused
	default:
		return StateStopped
	}
}

// Status represents a snapshot of the engine playback status.
type Status struct {
	State        State
	Track        *track.Track // nil when no track is loaded
	PositionSecs float64
	Volume       float64
}
