package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"cineverse-chat/domain"
	"cineverse-chat/runtime"
	"cineverse-chat/services"
)

// MessageDispatcher is what the send endpoint needs from the engine.
type MessageDispatcher interface {
	Dispatch(ctx context.Context, cmd domain.SendMessageCommand) domain.ChatMessage
}

type ChatHandler struct {
	log           *slog.Logger
	dispatcher    MessageDispatcher
	conversations services.IConversationService
	presence      *runtime.Presence
	validate      *validator.Validate
}

func NewChatHandler(log *slog.Logger, dispatcher MessageDispatcher,
	conversations services.IConversationService, presence *runtime.Presence) *ChatHandler {
	return &ChatHandler{
		log:           log,
		dispatcher:    dispatcher,
		conversations: conversations,
		presence:      presence,
		validate:      validator.New(),
	}
}

type sendMessageRequest struct {
	ConversationID uuid.UUID          `json:"conversationId" validate:"required"`
	SenderID       string             `json:"senderId" validate:"required"`
	SenderName     string             `json:"senderUsername"`
	Body           string             `json:"message" validate:"required"`
	Type           domain.MessageType `json:"messageType" validate:"omitempty,oneof=TEXT IMAGE FILE"`
}

// Send is the inbound transport endpoint. The transport contract is
// fire-and-forget, but same-process callers get the enriched message back,
// so return it to HTTP callers too.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	msg := h.dispatcher.Dispatch(r.Context(), domain.SendMessageCommand{
		ConversationID: req.ConversationID,
		SenderID:       req.SenderID,
		SenderName:     req.SenderName,
		Body:           req.Body,
		Type:           req.Type,
	})
	writeJSON(w, http.StatusOK, msg)
}

type createConversationRequest struct {
	UserID string `json:"userId" validate:"required"`
}

func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if !h.decode(w, r, &req) {
		return
	}
	summary, err := h.conversations.Create(req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.conversations.ListFor(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *ChatHandler) ListWaiting(w http.ResponseWriter, _ *http.Request) {
	summaries, err := h.conversations.ListWaiting()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.conversationID(w, r)
	if !ok {
		return
	}
	messages, err := h.conversations.History(conversationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

type assignRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
}

func (h *ChatHandler) Assign(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.conversationID(w, r)
	if !ok {
		return
	}
	var req assignRequest
	if !h.decode(w, r, &req) {
		return
	}
	summary, err := h.conversations.Assign(conversationID, req.EmployeeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ChatHandler) Close(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := h.conversationID(w, r)
	if !ok {
		return
	}
	summary, err := h.conversations.Close(conversationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ChatHandler) OnlineUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.presence.Snapshot())
}

func (h *ChatHandler) conversationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid conversation id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *ChatHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return false
	}
	return true
}
