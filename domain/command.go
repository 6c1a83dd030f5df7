package domain

import "github.com/google/uuid"

// SendMessageCommand is the inbound payload of a dispatch call.
// SenderName and Type are optional; the dispatcher fills them in.
type SendMessageCommand struct {
	ConversationID uuid.UUID
	SenderID       string
	SenderName     string
	Body           string
	Type           MessageType
}
