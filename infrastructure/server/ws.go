package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cineverse-chat/auth"
	"cineverse-chat/domain/event"
	"cineverse-chat/runtime"
)

// WSHandler upgrades subscriber connections, wires them into the hub, and
// keeps the presence tracker in sync with connect/disconnect events.
type WSHandler struct {
	log        *slog.Logger
	hub        *Hub
	presence   *runtime.Presence
	tokens     *auth.TokenManager
	bufferSize int
	upgrader   websocket.Upgrader
}

func NewWSHandler(log *slog.Logger, hub *Hub, presence *runtime.Presence,
	tokens *auth.TokenManager, bufferSize int) *WSHandler {
	return &WSHandler{
		log:        log,
		hub:        hub,
		presence:   presence,
		tokens:     tokens,
		bufferSize: bufferSize,
		upgrader: websocket.Upgrader{
			// Browsers hit this from the booking frontend's origin; the CORS
			// policy lives on the REST router, so mirror its openness here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle is GET /api/chat/ws?conversation={id}&token={jwt}.
// The connection subscribes the caller to the conversation channel; inbound
// chat messages travel over the REST send endpoint, not over this socket.
func (h *WSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	claims, err := h.tokens.Validate(bearerToken(r))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	conversationID, err := uuid.Parse(r.URL.Query().Get("conversation"))
	if err != nil {
		http.Error(w, "invalid conversation id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	client := &wsClient{
		userID:     claims.UserID,
		sessionID:  uuid.NewString(),
		channelKey: event.ChannelKey(conversationID),
		send:       make(chan []byte, h.bufferSize),
	}

	h.hub.Subscribe(client)
	h.presence.Connect(client.userID, client.sessionID)
	h.log.Info("user connected",
		"user_id", client.userID,
		"session_id", client.sessionID,
		"online", h.presence.Count())

	defer func() {
		h.presence.Disconnect(client.userID)
		h.hub.Unsubscribe(client)
		h.log.Info("user disconnected",
			"user_id", client.userID, "online", h.presence.Count())
	}()

	// Read pump: subscribers send nothing meaningful, but reading is how we
	// notice the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case data, ok := <-client.send:
			if !ok {
				// The hub dropped us (slow consumer or shutdown).
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.log.Debug("websocket write failed",
					"user_id", client.userID, "error", err)
				return
			}
		}
	}
}

// bearerToken reads the session token from the query string, falling back to
// the Authorization header for non-browser clients.
func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}
