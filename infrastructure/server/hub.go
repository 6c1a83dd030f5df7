// Package server exposes the chat engine over HTTP: the REST query surface
// and the WebSocket push channel.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cineverse-chat/contract"
	"cineverse-chat/domain"
	"cineverse-chat/domain/event"
	"cineverse-chat/projection"
)

var (
	_ contract.PushChannel = (*Hub)(nil)
	_ contract.Worker      = (*Hub)(nil)
)

// wsClient is one connected subscriber of a conversation channel.
type wsClient struct {
	userID     string
	sessionID  string
	channelKey string
	send       chan []byte
}

// Hub is the in-process push channel: it fans published events out to every
// WebSocket subscriber of the target conversation. Delivery is best effort;
// a subscriber that cannot keep up with its buffer is dropped rather than
// allowed to block the publisher.
type Hub struct {
	log        *slog.Logger
	timeline   *projection.Timeline
	mu         sync.Mutex
	clients    map[string]map[*wsClient]struct{} // channelKey -> subscribers
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
}

func NewHub(log *slog.Logger, timeline *projection.Timeline) *Hub {
	return &Hub{
		log:        log,
		timeline:   timeline,
		clients:    make(map[string]map[*wsClient]struct{}),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
	}
}

// Run processes subscriber churn until the context is canceled. Runs under
// the supervisor like any other worker.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return ctx.Err()
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Subscribe and Unsubscribe hand the client to the Run loop; once the hub has
// stopped they become no-ops so lingering transport handlers never block.
func (h *Hub) Subscribe(client *wsClient) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unsubscribe(client *wsClient) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish encodes the event and delivers it to all current subscribers of
// the channel. It blocks only on the in-memory fan-out, never on I/O: each
// subscriber has a buffered channel and the socket writes happen elsewhere.
func (h *Hub) Publish(channelKey string, evt event.ChannelEvent) {
	data, err := encodeEvent(evt)
	if err != nil {
		h.log.Error("event encoding failed", "channel", channelKey, "error", err)
		return
	}
	h.timeline.Record(evt)

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[channelKey] {
		select {
		case client.send <- data:
		default:
			// Slow consumer: cut it loose so the publisher never stalls.
			h.log.Warn("dropping slow subscriber",
				"channel", channelKey, "user_id", client.userID)
			delete(h.clients[channelKey], client)
			close(client.send)
		}
	}
}

// add registers the subscriber and replays the conversation's recent window
// so late joiners see what just happened.
func (h *Hub) add(client *wsClient) {
	conversationID, err := uuid.Parse(client.channelKey[len("conversation/"):])
	var recent []event.ChannelEvent
	if err == nil {
		recent = h.timeline.Recent(conversationID)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.channelKey]; !ok {
		h.clients[client.channelKey] = make(map[*wsClient]struct{})
	}
	h.clients[client.channelKey][client] = struct{}{}

	for _, evt := range recent {
		data, err := encodeEvent(evt)
		if err != nil {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
	h.log.Debug("subscriber added",
		"channel", client.channelKey, "user_id", client.userID)
}

func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subscribers, ok := h.clients[client.channelKey]
	if !ok {
		return
	}
	if _, ok := subscribers[client]; !ok {
		return
	}
	delete(subscribers, client)
	close(client.send)
	if len(subscribers) == 0 {
		delete(h.clients, client.channelKey)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, subscribers := range h.clients {
		for client := range subscribers {
			close(client.send)
		}
		delete(h.clients, key)
	}
}

// Wire forms share the channel; the type field discriminates them, matching
// the payloads the browser client already understands.
func encodeEvent(evt event.ChannelEvent) ([]byte, error) {
	switch e := evt.(type) {
	case event.MessagePublished:
		return json.Marshal(struct {
			Type    event.Kind         `json:"type"`
			Message domain.ChatMessage `json:"message"`
		}{event.KindMessage, e.Message})
	case event.EmployeeJoined:
		return json.Marshal(struct {
			Type         event.Kind `json:"type"`
			EmployeeID   string     `json:"employeeId"`
			EmployeeName string     `json:"employeeUsername"`
		}{event.KindEmployeeJoined, e.EmployeeID, e.EmployeeName})
	case event.ConversationClosed:
		return json.Marshal(struct {
			Type     event.Kind `json:"type"`
			ClosedAt time.Time  `json:"closedAt"`
		}{event.KindConversationClosed, e.ClosedAt})
	default:
		return nil, fmt.Errorf("unknown channel event %T", evt)
	}
}
