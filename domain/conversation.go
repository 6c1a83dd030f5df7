// Package domain contains core concepts of the support-chat system.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConversationStatus string

const (
	StatusOpen    ConversationStatus = "OPEN"
	StatusWaiting ConversationStatus = "WAITING"
	StatusClosed  ConversationStatus = "CLOSED"
)

// Conversation is a bounded chat session between one customer and at most
// one employee. ClosedAt is set if and only if Status is CLOSED.
type Conversation struct {
	ID         uuid.UUID
	CustomerID string
	EmployeeID *string
	Status     ConversationStatus
	CreatedAt  time.Time
	ClosedAt   *time.Time
}

// ConversationSummary is the client-facing view of a conversation,
// with display names resolved from the user store.
type ConversationSummary struct {
	ID           uuid.UUID          `json:"id"`
	CustomerID   string             `json:"customerId"`
	CustomerName string             `json:"customerUsername,omitempty"`
	EmployeeID   *string            `json:"employeeId,omitempty"`
	EmployeeName string             `json:"employeeUsername,omitempty"`
	Status       ConversationStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
	ClosedAt     *time.Time         `json:"closedAt,omitempty"`
}
