package notify

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/MemestaVedas/vibe-on-sub002/internal/app/playback"
)

// recordingSink records received events.
type recordingSink struct {
	mu     sync.Mutex
	events []playback.Event
	err    error
}

func (s *recordingSink) Send(e playback.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()

	a := &recordingSink{}
	b := &recordingSink{}
	hub.Subscribe(a)
	hub.Subscribe(b)

	hub.Broadcast(playback.Event{Type: playback.EventStateChanged})
	hub.Broadcast(playback.Event{Type: playback.EventPosition, PositionSecs: 12})

	assert.Equal(t, 2, a.count())
	assert.Equal(t, 2, b.count())
	assert.Equal(t, uint64(2), hub.SequenceNo())
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()

	sink := &recordingSink{}
	id := hub.Subscribe(sink)
	hub.Broadcast(playback.Event{Type: playback.EventStateChanged})

	hub.Unsubscribe(id)
	hub.Broadcast(playback.Event{Type: playback.EventStateChanged})

	assert.Equal(t, 1, sink.count())
}

func TestHub_FailingSinkDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()

	bad := &recordingSink{err: errors.New("closed")}
	good := &recordingSink{}
	hub.Subscribe(bad)
	hub.Subscribe(good)

	hub.Broadcast(playback.Event{Type: playback.EventTrackChanged})
	assert.Equal(t, 1, good.count())
}
