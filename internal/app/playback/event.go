package playback

import (
	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/player"
	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/track"
)

// EventType represents a playback event type.
type EventType int

const (
	EventTrackChanged EventType = iota // Current track changed (play/next/external override)
	EventStateChanged                  // Playback state changed (play/pause/stop)
	EventPosition                      // Position advanced while playing
	EventError                         // Engine call failed
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackChanged:
		return "track_changed"
	case EventStateChanged:
		return "state_changed"
	case EventPosition:
		return "position"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event represents a playback event delivered to observers.
type Event struct {
	Type         EventType
	State        player.State
	Track        *track.Track // Current track (nil for some events)
	PositionSecs float64
	Err          error // Set for EventError
}

// Notifier delivers events to the rendering layer. Implementations must
// not block.
type Notifier interface {
	Broadcast(Event)
}
