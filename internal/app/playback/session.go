// Package playback provides the playback session state machine: the
// locally cached engine status, the position poll loop, auto-advance, and
// the play/pause/seek/skip transitions driven against the native engine.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/MemestaVedas/vibe-on-sub002/internal/app/queue"
	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/player"
	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/track"
)

// Errors
var (
	ErrIndexOutOfRange = errors.New("queue index out of range")
)

// Engine is the native playback engine boundary. All calls are
// asynchronous requests with no ordering guarantee between them; the
// session applies last-request-wins on top.
type Engine interface {
	Play(ctx context.Context, path string) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Seek(ctx context.Context, seconds float64) error
	SetVolume(ctx context.Context, volume float64) error
	Status(ctx context.Context) (player.Status, error)
}

// Config holds session configuration.
type Config struct {
	PollInterval             time.Duration // Status poll cadence while playing
	AutoAdvanceThresholdSecs float64       // Max remaining seconds for a stop to count as natural end
	PendingTimeout           time.Duration // How long an optimistic transition waits for poll confirmation
}

// pendingTransition is an optimistic local transition awaiting
// confirmation by the next poll.
type pendingTransition struct {
	intended player.State
	since    time.Time
}

// Session is the playback session controller. It owns the cached engine
// status and the play queue's active-entry resolution; no other component
// writes either.
type Session struct {
	mu sync.Mutex

	engine Engine
	queue  *queue.Manager
	config Config

	status  player.Status
	pending *pendingTransition

	// seq increments on every local command. Poll results that started
	// before the latest command are stale and discarded, so a late poll
	// never overrides a newer seek or transition.
	seq uint64

	shuffle bool
	picker  Picker

	pollCancel context.CancelFunc

	notifier Notifier
	lastErr  error
}

// NewSession creates a playback session against the given engine and queue.
func NewSession(engine Engine, q *queue.Manager, config Config) *Session {
	if config.PollInterval <= 0 {
		config.PollInterval = 250 * time.Millisecond
	}
	if config.AutoAdvanceThresholdSecs <= 0 {
		config.AutoAdvanceThresholdSecs = 1
	}
	if config.PendingTimeout <= 0 {
		config.PendingTimeout = 2 * time.Second
	}
	return &Session{
		engine: engine,
		queue:  q,
		config: config,
		picker: NewUniformPicker(),
		status: player.Status{State: player.StateStopped, Volume: 1.0},
	}
}

// SetNotifier sets the observer the session broadcasts events to.
func (s *Session) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// SetPicker replaces the shuffle selection policy.
func (s *Session) SetPicker(p Picker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.picker = p
}

// SetShuffle enables or disables shuffle for "next" skips.
func (s *Session) SetShuffle(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffle = enabled
}

// Shuffle returns whether shuffle is enabled.
func (s *Session) Shuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shuffle
}

// Queue returns the play queue.
func (s *Session) Queue() *queue.Manager {
	return s.queue
}

// Status returns a copy of the cached playback status.
func (s *Session) Status() player.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.status
	if st.Track != nil {
		t := *st.Track
		st.Track = &t
	}
	return st
}

// State returns the cached playback state.
func (s *Session) State() player.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.State
}

// ActiveQueueIndex resolves the queue entry matching the current track by
// normalized path identity, or -1.
func (s *Session) ActiveQueueIndex() int {
	s.mu.Lock()
	path := ""
	if s.status.Track != nil {
		path = s.status.Track.Path
	}
	s.mu.Unlock()
	return s.queue.ResolveActive(path)
}

// LastErr returns the last engine failure, if any. Failures never change
// playback state speculatively; they only degrade to no progress.
func (s *Session) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Play starts playback of the given track from the beginning. The cached
// state flips optimistically; the actual position is confirmed by the
// next poll.
func (s *Session) Play(ctx context.Context, t track.Track) error {
	if err := s.engine.Play(ctx, t.Path); err != nil {
		return s.fail(errors.Wrapf(err, "engine play: %s", t.Path))
	}

	s.mu.Lock()
	s.seq++
	tt := t
	s.status.State = player.StatePlaying
	s.status.Track = &tt
	s.status.PositionSecs = 0
	s.pending = &pendingTransition{intended: player.StatePlaying, since: time.Now()}
	s.lastErr = nil
	s.startPollingLocked()
	events := []Event{
		{Type: EventTrackChanged, State: s.status.State, Track: &tt},
		{Type: EventStateChanged, State: s.status.State, Track: &tt},
	}
	s.mu.Unlock()

	zlog.Info().Msgf("playback: playing track=%s", t.DisplayTitle())
	s.broadcast(events...)
	return nil
}

// PlayAt starts playback of the queue entry at index.
func (s *Session) PlayAt(ctx context.Context, index int) error {
	t, ok := s.queue.At(index)
	if !ok {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	}
	return s.Play(ctx, t)
}

// Pause pauses playback. Valid only while playing; otherwise a no-op.
func (s *Session) Pause(ctx context.Context) error {
	s.mu.Lock()
	if s.status.State != player.StatePlaying {
		s.mu.Unlock()
		zlog.Debug().Msgf("playback: pause ignored: state=%s", s.status.State)
		return nil
	}
	s.mu.Unlock()

	if err := s.engine.Pause(ctx); err != nil {
		return s.fail(errors.Wrap(err, "engine pause"))
	}

	s.mu.Lock()
	var events []Event
	if s.status.State == player.StatePlaying {
		s.seq++
		s.status.State = player.StatePaused
		s.pending = &pendingTransition{intended: player.StatePaused, since: time.Now()}
		s.stopPollingLocked()
		events = append(events, Event{Type: EventStateChanged, State: s.status.State, Track: s.status.Track})
	}
	s.mu.Unlock()

	s.broadcast(events...)
	return nil
}

// Resume resumes paused playback. From Stopped with a track still set it
// re-issues playback of that track; otherwise a no-op.
func (s *Session) Resume(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.status.State == player.StatePaused:
		s.mu.Unlock()

	case s.status.State == player.StateStopped && s.status.Track != nil:
		t := *s.status.Track
		s.mu.Unlock()
		return s.Play(ctx, t)

	default:
		s.mu.Unlock()
		zlog.Debug().Msg("playback: resume ignored: nothing to resume")
		return nil
	}

	if err := s.engine.Resume(ctx); err != nil {
		return s.fail(errors.Wrap(err, "engine resume"))
	}

	s.mu.Lock()
	var events []Event
	if s.status.State == player.StatePaused {
		s.seq++
		s.status.State = player.StatePlaying
		s.pending = &pendingTransition{intended: player.StatePlaying, since: time.Now()}
		s.startPollingLocked()
		events = append(events, Event{Type: EventStateChanged, State: s.status.State, Track: s.status.Track})
	}
	s.mu.Unlock()

	s.broadcast(events...)
	return nil
}

// Seek moves the playback position, clamped to [0, duration]. Permitted
// in every state, including Stopped.
func (s *Session) Seek(ctx context.Context, seconds float64) error {
	s.mu.Lock()
	var duration float64
	if s.status.Track != nil {
		duration = s.status.Track.DurationSecs
	}
	if seconds < 0 {
		seconds = 0
	}
	if seconds > duration {
		seconds = duration
	}
	s.mu.Unlock()

	if err := s.engine.Seek(ctx, seconds); err != nil {
		return s.fail(errors.Wrapf(err, "engine seek: %v", seconds))
	}

	s.mu.Lock()
	s.seq++
	s.status.PositionSecs = seconds
	event := Event{Type: EventPosition, State: s.status.State, Track: s.status.Track, PositionSecs: seconds}
	s.mu.Unlock()

	s.broadcast(event)
	return nil
}

// SetVolume sets the engine volume, clamped to [0, 1].
func (s *Session) SetVolume(ctx context.Context, volume float64) error {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	if err := s.engine.SetVolume(ctx, volume); err != nil {
		return s.fail(errors.Wrapf(err, "engine set volume: %v", volume))
	}

	s.mu.Lock()
	s.seq++
	s.status.Volume = volume
	s.mu.Unlock()
	return nil
}

// Next skips to the next queue entry. At the end of the queue it is a
// silent no-op. With shuffle enabled and at least 2 entries the target is
// chosen by the picker instead.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	path := ""
	if s.status.Track != nil {
		path = s.status.Track.Path
	}
	s.mu.Unlock()
	return s.nextFrom(ctx, path)
}

// Previous skips to the previous queue entry. At the start of the queue
// it is a silent no-op.
func (s *Session) Previous(ctx context.Context) error {
	current := s.ActiveQueueIndex()
	target := current - 1
	if target < 0 {
		zlog.Debug().Msgf("playback: previous ignored at queue boundary: current=%d", current)
		return nil
	}
	t, ok := s.queue.At(target)
	if !ok {
		return nil
	}
	return s.Play(ctx, t)
}

// nextFrom resolves and plays the entry after the given path identity.
func (s *Session) nextFrom(ctx context.Context, fromPath string) error {
	current := s.queue.ResolveActive(fromPath)
	length := s.queue.Len()

	s.mu.Lock()
	shuffle := s.shuffle
	picker := s.picker
	s.mu.Unlock()

	target := current + 1
	if shuffle && length >= 2 {
		target = picker.Pick(current, length)
	}
	if target < 0 || target >= length {
		zlog.Debug().Msgf("playback: next ignored at queue boundary: current=%d len=%d", current, length)
		return nil
	}
	t, ok := s.queue.At(target)
	if !ok {
		return nil
	}
	return s.Play(ctx, t)
}

// Close cancels the poll loop.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPollingLocked()
}

// startPollingLocked starts the status poll loop. Active only while
// playing; pause and stop cancel it immediately so a stale poll cannot
// overwrite a newer local state.
func (s *Session) startPollingLocked() {
	if s.pollCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.pollCancel = cancel
	go s.pollLoop(ctx)
}

func (s *Session) stopPollingLocked() {
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
}

func (s *Session) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *Session) pollOnce(ctx context.Context) {
	s.mu.Lock()
	seqAtStart := s.seq
	s.mu.Unlock()

	st, err := s.engine.Status(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		zlog.Warn().Msgf("playback: status poll failed: %v", err)
		return
	}

	s.applyPoll(st, seqAtStart)
}

// applyPoll reconciles a poll result with the cached status. seqAtStart is
// the command sequence observed before the poll was issued; a mismatch
// means a newer local command was applied and the result is stale.
func (s *Session) applyPoll(st player.Status, seqAtStart uint64) {
	s.mu.Lock()

	if seqAtStart != s.seq {
		zlog.Debug().Msgf("playback: discarding stale poll: seq=%d current=%d", seqAtStart, s.seq)
		s.mu.Unlock()
		return
	}

	if s.pending != nil {
		switch {
		case st.State == s.pending.intended:
			s.pending = nil
		case time.Since(s.pending.since) < s.config.PendingTimeout:
			// Keep the optimistic local state until confirmed or timed out.
			s.mu.Unlock()
			return
		default:
			zlog.Warn().Msgf("playback: transition to %s unconfirmed after %v, adopting engine state %s",
				s.pending.intended, s.config.PendingTimeout, st.State)
			s.pending = nil
		}
	}

	prev := s.status

	var events []Event
	if st.Track != nil && (prev.Track == nil || !prev.Track.SamePath(st.Track.Path)) {
		if prev.Track != nil {
			zlog.Info().Msgf("playback: adopting externally selected track: %s", st.Track.DisplayTitle())
		}
		events = append(events, Event{Type: EventTrackChanged, State: st.State, Track: st.Track})
	}

	// A Playing -> Stopped transition counts as a natural track end only
	// when the last known position was within the threshold of the track
	// duration. An explicit stop or an engine error far from the end must
	// not trigger auto-advance.
	autoAdvance := prev.State == player.StatePlaying &&
		st.State == player.StateStopped &&
		prev.Track != nil &&
		prev.Track.DurationSecs-prev.PositionSecs <= s.config.AutoAdvanceThresholdSecs
	advanceFrom := ""
	if autoAdvance {
		advanceFrom = prev.Track.Path
	}

	s.status = st
	if st.State != player.StatePlaying {
		s.stopPollingLocked()
	}
	if prev.State != st.State {
		events = append(events, Event{Type: EventStateChanged, State: st.State, Track: st.Track})
	}
	if st.State == player.StatePlaying {
		events = append(events, Event{Type: EventPosition, State: st.State, Track: st.Track, PositionSecs: st.PositionSecs})
	}
	s.mu.Unlock()

	s.broadcast(events...)

	if autoAdvance {
		zlog.Info().Msgf("playback: track finished, auto-advancing")
		if err := s.nextFrom(context.Background(), advanceFrom); err != nil {
			zlog.Warn().Msgf("playback: auto-advance failed: %v", err)
		}
	}
}

// fail records an engine failure as the inspectable last error without
// changing the cached state.
func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err
	state := s.status.State
	t := s.status.Track
	s.mu.Unlock()

	zlog.Error().Msgf("playback: %v", err)
	s.broadcast(Event{Type: EventError, State: state, Track: t, Err: err})
	return err
}

func (s *Session) broadcast(events ...Event) {
	s.mu.Lock()
	n := s.notifier
	s.mu.Unlock()

	if n == nil {
		return
	}
	for _, e := range events {
		n.Broadcast(e)
	}
}
