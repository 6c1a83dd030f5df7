// Package event defines the payloads published on conversation channels.
// Chat messages and lifecycle notifications share one channel, discriminated
// by Kind on the wire.
package event

import (
	"time"

	"github.com/google/uuid"

	"cineverse-chat/domain"
)

type Kind string

const (
	KindMessage            Kind = "MESSAGE"
	KindEmployeeJoined     Kind = "EMPLOYEE_JOINED"
	KindConversationClosed Kind = "CONVERSATION_CLOSED"
)

// ChannelEvent is anything that can be published to a conversation channel.
type ChannelEvent interface {
	EventKind() Kind
	ConversationID() uuid.UUID
}

// ChannelKey builds the push-channel key for a conversation.
func ChannelKey(conversationID uuid.UUID) string {
	return "conversation/" + conversationID.String()
}

// MessagePublished carries an enriched chat message.
type MessagePublished struct {
	Message domain.ChatMessage
}

func (e MessagePublished) EventKind() Kind           { return KindMessage }
func (e MessagePublished) ConversationID() uuid.UUID { return e.Message.ConversationID }

// EmployeeJoined notifies subscribers that an employee claimed the conversation.
type EmployeeJoined struct {
	Conversation uuid.UUID
	EmployeeID   string
	EmployeeName string
}

func (e EmployeeJoined) EventKind() Kind           { return KindEmployeeJoined }
func (e EmployeeJoined) ConversationID() uuid.UUID { return e.Conversation }

// ConversationClosed notifies subscribers that the conversation is terminal.
type ConversationClosed struct {
	Conversation uuid.UUID
	ClosedAt     time.Time
}

func (e ConversationClosed) EventKind() Kind           { return KindConversationClosed }
func (e ConversationClosed) ConversationID() uuid.UUID { return e.Conversation }
