package lyricsync

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/MemestaVedas/vibe-on-sub002/internal/app/playback"
	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/lyrics"
	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/track"
)

// Fetcher retrieves the lyric set for a track identity. Implementations
// are expected to memoize; the coordinator calls repeatedly.
type Fetcher interface {
	FetchLyrics(ctx context.Context, id lyrics.Identity) (lyrics.Set, error)
}

// Coordinator owns the currently displayed lyric set. Switching tracks
// cancels the in-flight fetch for the previous identity; a fetch
// resolving for a track that is no longer active is discarded, never
// displayed.
type Coordinator struct {
	mu sync.Mutex

	fetcher  Fetcher
	follower *Follower

	set         lyrics.Set
	activeIndex int
	mode        lyrics.DisplayMode

	// generation increments on every track change; a resolving fetch
	// carrying an older generation is stale.
	generation  uint64
	cancelFetch context.CancelFunc
}

// NewCoordinator creates a coordinator. The follower may be nil when no
// viewport is attached.
func NewCoordinator(fetcher Fetcher, follower *Follower) *Coordinator {
	return &Coordinator{
		fetcher:     fetcher,
		follower:    follower,
		activeIndex: -1,
	}
}

// TrackChanged replaces the lyric set wholesale for the new track. The
// previous set is cleared immediately so it is never displayed against
// the new track, and the previous fetch is canceled.
func (c *Coordinator) TrackChanged(t *track.Track) {
	c.mu.Lock()

	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.generation++
	c.set = lyrics.Set{}
	c.activeIndex = -1

	if t == nil || c.fetcher == nil {
		c.mu.Unlock()
		return
	}

	id := lyrics.IdentityFor(*t)
	gen := c.generation
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelFetch = cancel
	c.mu.Unlock()

	go c.fetch(ctx, gen, id)
}

func (c *Coordinator) fetch(ctx context.Context, gen uint64, id lyrics.Identity) {
	set, err := c.fetcher.FetchLyrics(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		zlog.Debug().Msgf("lyricsync: discarding stale lyrics for %s - %s", id.Artist, id.Title)
		return
	}
	if err != nil {
		zlog.Warn().Msgf("lyricsync: lyrics fetch failed for %s - %s: %v", id.Artist, id.Title, err)
		return
	}

	set.Identity = id
	c.set = set
	c.activeIndex = -1
	zlog.Info().Msgf("lyricsync: loaded %d lines for %s - %s", len(set.Lines), id.Artist, id.Title)
}

// Position recomputes the active line for the playback position and asks
// the follower to track it when it changes.
func (c *Coordinator) Position(seconds float64) {
	c.mu.Lock()
	idx := lyrics.ActiveIndex(c.set.Lines, seconds)
	changed := idx != c.activeIndex
	c.activeIndex = idx
	follower := c.follower
	c.mu.Unlock()

	if changed && idx >= 0 && follower != nil {
		follower.Request(idx)
	}
}

// ActiveIndex returns the current active line index, or -1.
func (c *Coordinator) ActiveIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeIndex
}

// Lines returns a snapshot of the current lyric lines.
func (c *Coordinator) Lines() []lyrics.Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]lyrics.Line, len(c.set.Lines))
	copy(result, c.set.Lines)
	return result
}

// LineCount returns the current number of lines.
func (c *Coordinator) LineCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.set.Lines)
}

// ActiveLine renders the active line for the current display mode.
func (c *Coordinator) ActiveLine() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeIndex < 0 || c.activeIndex >= len(c.set.Lines) {
		return "", false
	}
	return c.set.Lines[c.activeIndex].Render(c.mode), true
}

// Mode returns the display mode.
func (c *Coordinator) Mode() lyrics.DisplayMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// CycleMode advances the display mode in its fixed order.
func (c *Coordinator) CycleMode() lyrics.DisplayMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = c.mode.Cycle()
	return c.mode
}

// Send feeds a playback event into the coordinator, satisfying the
// notification sink interface.
func (c *Coordinator) Send(e playback.Event) error {
	switch e.Type {
	case playback.EventTrackChanged:
		c.TrackChanged(e.Track)
	case playback.EventPosition:
		c.Position(e.PositionSecs)
	}
	return nil
}

// Close cancels any in-flight fetch and pending scroll.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	follower := c.follower
	c.mu.Unlock()

	if follower != nil {
		follower.Cancel()
	}
}
