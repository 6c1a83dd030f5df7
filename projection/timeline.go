// Package projection builds local read views from observed channel events.
// It never emits events and never talks to transports.
package projection

import (
	"sync"

	"github.com/google/uuid"

	"cineverse-chat/domain/event"
)

// Timeline keeps a bounded window of recent events per conversation so the
// hub can replay them to subscribers that arrive late. Safe for concurrent
// use.
type Timeline struct {
	mu     sync.RWMutex
	limit  int
	events map[uuid.UUID][]event.ChannelEvent
}

func NewTimeline(limit int) *Timeline {
	return &Timeline{
		limit:  limit,
		events: make(map[uuid.UUID][]event.ChannelEvent),
	}
}

// Record appends the event to its conversation's window, evicting the oldest
// entry once the limit is reached.
func (t *Timeline) Record(e event.ChannelEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	window := append(t.events[e.ConversationID()], e)
	if t.limit > 0 && len(window) > t.limit {
		window = window[len(window)-t.limit:]
	}
	t.events[e.ConversationID()] = window
}

// Recent returns a copy of the conversation's current window, oldest first.
func (t *Timeline) Recent(conversationID uuid.UUID) []event.ChannelEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()

	window := t.events[conversationID]
	out := make([]event.ChannelEvent, len(window))
	copy(out, window)
	return out
}
