package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageText  MessageType = "TEXT"
	MessageImage MessageType = "IMAGE"
	MessageFile  MessageType = "FILE"
)

// ChatMessage is immutable once persisted; it belongs exclusively to its
// conversation. ReadAt stays nil until the recipient side marks it.
type ChatMessage struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversationId"`
	SenderID       string      `json:"senderId"`
	SenderName     string      `json:"senderUsername,omitempty"`
	Body           string      `json:"message"`
	Type           MessageType `json:"messageType"`
	SentAt         time.Time   `json:"sentAt"`
	ReadAt         *time.Time  `json:"readAt,omitempty"`
}
