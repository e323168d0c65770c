package lyricsync

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingScroller records scroll targets.
type recordingScroller struct {
	mu      sync.Mutex
	targets []int
}

func (r *recordingScroller) ScrollToCenter(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, index)
}

func (r *recordingScroller) recorded() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.targets...)
}

func constCount(n int) func() int {
	return func() int { return n }
}

func TestFollower_ImmediateDispatch(t *testing.T) {
	scroller := &recordingScroller{}
	f := NewFollower(scroller, 50*time.Millisecond, constCount(10))

	f.Request(3)
	assert.Equal(t, []int{3}, scroller.recorded())
}

func TestFollower_SettleDelayAfterLayoutChange(t *testing.T) {
	scroller := &recordingScroller{}
	f := NewFollower(scroller, 30*time.Millisecond, constCount(10))

	f.NotifyLayoutChanged()
	f.Request(3)

	// Deferred: nothing dispatched until layout settles.
	assert.Empty(t, scroller.recorded())

	require.Eventually(t, func() bool {
		return len(scroller.recorded()) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, []int{3}, scroller.recorded())
}

func TestFollower_NewerRequestSupersedesOlder(t *testing.T) {
	scroller := &recordingScroller{}
	f := NewFollower(scroller, 30*time.Millisecond, constCount(10))

	f.NotifyLayoutChanged()
	f.Request(3)
	f.Request(5)

	require.Eventually(t, func() bool {
		return len(scroller.recorded()) > 0
	}, time.Second, time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []int{5}, scroller.recorded(), "older undispatched request must be replaced, not enqueued")
}

func TestFollower_StaleIndexDropped(t *testing.T) {
	scroller := &recordingScroller{}
	count := 10
	var mu sync.Mutex
	f := NewFollower(scroller, 30*time.Millisecond, func() int {
		mu.Lock()
		defer mu.Unlock()
		return count
	})

	f.NotifyLayoutChanged()
	f.Request(7)

	// The lines are replaced with a shorter set while the request is
	// pending; the scroll must be dropped, never clamped.
	mu.Lock()
	count = 3
	mu.Unlock()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, scroller.recorded())
}

func TestFollower_NegativeIndexDropped(t *testing.T) {
	scroller := &recordingScroller{}
	f := NewFollower(scroller, 0, constCount(10))

	f.Request(-1)
	assert.Empty(t, scroller.recorded())
}

func TestFollower_Cancel(t *testing.T) {
	scroller := &recordingScroller{}
	f := NewFollower(scroller, 30*time.Millisecond, constCount(10))

	f.NotifyLayoutChanged()
	f.Request(2)
	f.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, scroller.recorded())
}
