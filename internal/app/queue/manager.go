// Package queue provides the user-reorderable play queue.
package queue

import (
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/track"
)

// Manager owns the ordered sequence of tracks pending playback.
// Insertion order is playback order. Mutations replace the backing slice
// wholesale so snapshots handed out earlier are never aliased.
type Manager struct {
	mu      sync.RWMutex
	tracks  []track.Track
	version uint64
}

// NewManager creates an empty queue.
func NewManager() *Manager {
	return &Manager{tracks: make([]track.Track, 0)}
}

// Set replaces the queue contents ("play this list").
func (m *Manager) Set(tracks []track.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]track.Track, len(tracks))
	copy(next, tracks)
	m.tracks = next
	m.version++
}

// Append adds tracks to the end of the queue.
func (m *Manager) Append(tracks ...track.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]track.Track, 0, len(m.tracks)+len(tracks))
	next = append(next, m.tracks...)
	next = append(next, tracks...)
	m.tracks = next
	m.version++
}

// Reorder moves the element at from to position to, in the post-removal
// index space, shifting intervening items by one. This matches
// drag-and-drop semantics: dropping item A onto item B's position places A
// exactly at B's former slot. Out-of-bounds indices and from == to are
// strict no-ops.
func (m *Manager) Reorder(from, to int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.tracks)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		zlog.Debug().Msgf("queue: reorder ignored: from=%d to=%d len=%d", from, to, n)
		return
	}

	moved := m.tracks[from]
	next := make([]track.Track, 0, n)
	next = append(next, m.tracks[:from]...)
	next = append(next, m.tracks[from+1:]...)
	next = append(next[:to], append([]track.Track{moved}, next[to:]...)...)
	m.tracks = next
	m.version++
}

// Remove deletes the element at index, preserving relative order of the
// rest. Out of bounds is a strict no-op.
func (m *Manager) Remove(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.tracks) {
		zlog.Debug().Msgf("queue: remove ignored: index=%d len=%d", index, len(m.tracks))
		return
	}

	next := make([]track.Track, 0, len(m.tracks)-1)
	next = append(next, m.tracks[:index]...)
	next = append(next, m.tracks[index+1:]...)
	m.tracks = next
	m.version++
}

// Clear empties the queue unconditionally.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tracks = make([]track.Track, 0)
	m.version++
}

// ResolveActive returns the index of the entry whose normalized path
// matches activePath, or -1 when activePath is empty or absent.
func (m *Manager) ResolveActive(activePath string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if activePath == "" {
		return -1
	}
	norm := track.NormalizePath(activePath)
	for i := range m.tracks {
		if track.NormalizePath(m.tracks[i].Path) == norm {
			return i
		}
	}
	return -1
}

// At returns the track at index.
func (m *Manager) At(index int) (track.Track, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if index < 0 || index >= len(m.tracks) {
		return track.Track{}, false
	}
	return m.tracks[index], true
}

// Tracks returns a snapshot of the queue.
func (m *Manager) Tracks() []track.Track {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]track.Track, len(m.tracks))
	copy(result, m.tracks)
	return result
}

// Len returns the number of queued tracks.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tracks)
}

// Version returns a counter that increments on every mutation. Observers
// use it to invalidate indices resolved against an older queue.
func (m *Manager) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// TotalDurationSecs returns the total duration of all queued tracks.
func (m *Manager) TotalDurationSecs() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total float64
	for _, t := range m.tracks {
		total += t.DurationSecs
	}
	return total
}
