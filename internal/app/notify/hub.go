// Package notify provides the observer hub that broadcasts playback
// events to the rendering layer.
package notify

import (
	"sync"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/MemestaVedas/vibe-on-sub002/internal/app/playback"
)

// Sink receives broadcast events. Implementations must return quickly;
// a failing sink is logged and skipped, never retried.
type Sink interface {
	Send(playback.Event) error
}

// subscription represents a subscriber's registration.
type subscription struct {
	id   string
	sink Sink
}

// Hub manages subscriptions and broadcasting. It implements
// playback.Notifier.
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe adds a sink and returns the subscription ID.
func (h *Hub) Subscribe(sink Sink) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.New().String()
	h.subscriptions[id] = &subscription{id: id, sink: sink}
	return id
}

// Unsubscribe removes a subscription.
func (h *Hub) Unsubscribe(subscriptionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscriptions, subscriptionID)
}

// Broadcast sends an event to all subscribers in registration order.
func (h *Hub) Broadcast(e playback.Event) {
	h.mu.Lock()
	h.sequenceNo++
	h.mu.Unlock()

	h.mu.RLock()
	// Copy subscriptions to avoid holding the lock during sends.
	subs := make([]*subscription, 0, len(h.subscriptions))
	for _, sub := range h.subscriptions {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.sink.Send(e); err != nil {
			zlog.Warn().Msgf("notify: sink %s rejected event %s: %v", sub.id, e.Type, err)
		}
	}
}

// SequenceNo returns the number of events broadcast so far.
func (h *Hub) SequenceNo() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sequenceNo
}
