// Package lyricsync keeps the lyric viewport and the displayed lyric set
// in sync with playback: it follows the active line with scroll requests
// and coordinates lyric fetches so a stale set is never displayed.
package lyricsync

import (
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// ScrollController is the virtualized list's programmatic scroll handle.
type ScrollController interface {
	// ScrollToCenter smoothly scrolls the item at index to the viewport
	// center.
	ScrollToCenter(index int)
}

// Follower issues scroll-to-active-line requests against a virtualized
// list. Only one request is in flight at a time; a newer request
// supersedes an older undispatched one. After a layout transition the
// request is deferred by the settle delay so the scroll target is
// computed against final layout.
type Follower struct {
	mu sync.Mutex

	ctrl        ScrollController
	settleDelay time.Duration
	lineCount   func() int

	timer            *time.Timer
	lastLayoutChange time.Time
}

// NewFollower creates a follower for the given scroll controller.
// lineCount reports the current number of lines; a request whose index is
// no longer valid at dispatch time is silently dropped.
func NewFollower(ctrl ScrollController, settleDelay time.Duration, lineCount func() int) *Follower {
	return &Follower{
		ctrl:        ctrl,
		settleDelay: settleDelay,
		lineCount:   lineCount,
	}
}

// NotifyLayoutChanged records that an enclosing layout transition started.
// Requests within the settle window are deferred until layout settles.
func (f *Follower) NotifyLayoutChanged() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLayoutChange = time.Now()
}

// Request schedules a scroll to index, replacing any undispatched request.
func (f *Follower) Request(index int) {
	f.mu.Lock()

	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}

	var delay time.Duration
	if f.settleDelay > 0 && time.Since(f.lastLayoutChange) < f.settleDelay {
		delay = f.settleDelay
	}

	if delay == 0 {
		f.mu.Unlock()
		f.dispatch(index)
		return
	}

	f.timer = time.AfterFunc(delay, func() {
		f.mu.Lock()
		f.timer = nil
		f.mu.Unlock()
		f.dispatch(index)
	})
	f.mu.Unlock()
}

// Cancel drops any undispatched request.
func (f *Follower) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// dispatch issues the scroll if the target is still valid. The lines may
// have been replaced while the request was pending; an out-of-range index
// is dropped, never clamped.
func (f *Follower) dispatch(index int) {
	if index < 0 {
		return
	}
	if f.lineCount != nil && index >= f.lineCount() {
		zlog.Debug().Msgf("lyricsync: dropping scroll to stale index %d", index)
		return
	}
	f.ctrl.ScrollToCenter(index)
}
