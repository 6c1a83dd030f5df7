//go:generate go run go.uber.org/mock/mockgen -source=conversation_service.go -destination=../mocks/mock_conversation_service.go -package=mocks
package services

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"cineverse-chat/contract"
	"cineverse-chat/domain"
	"cineverse-chat/domain/event"
	"cineverse-chat/errors"
	"cineverse-chat/repositories"
)

type IConversationService interface {
	Create(customerID string) (domain.ConversationSummary, error)
	Assign(conversationID uuid.UUID, employeeID string) (domain.ConversationSummary, error)
	Close(conversationID uuid.UUID) (domain.ConversationSummary, error)
	ListFor(userID string) ([]domain.ConversationSummary, error)
	ListWaiting() ([]domain.ConversationSummary, error)
	History(conversationID uuid.UUID) ([]domain.ChatMessage, error)
}

// ConversationService owns the conversation lifecycle: creation, claim by an
// employee, closure, and the read views. Lifecycle transitions are persisted
// synchronously and announced on the conversation channel.
type ConversationService struct {
	log           *slog.Logger
	users         repositories.IUserRepository
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	push          contract.PushChannel
}

func NewConversationService(
	log *slog.Logger,
	users repositories.IUserRepository,
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	push contract.PushChannel,
) *ConversationService {
	return &ConversationService{
		log:           log,
		users:         users,
		conversations: conversations,
		messages:      messages,
		push:          push,
	}
}

// Create opens a new conversation for a customer. The customer must exist.
func (s *ConversationService) Create(customerID string) (domain.ConversationSummary, error) {
	customer, err := s.users.FindUser(customerID)
	if err != nil {
		return domain.ConversationSummary{}, err
	}

	conversation := domain.Conversation{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     domain.StatusOpen,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.conversations.SaveConversation(conversation); err != nil {
		return domain.ConversationSummary{}, err
	}

	s.log.Info("conversation created",
		"conversation_id", conversation.ID, "customer_id", customerID)
	return s.summarize(conversation, &customer), nil
}

// Assign claims the conversation for an employee. A WAITING conversation is
// forced back to OPEN, and subscribers are told exactly once that the
// employee joined. CLOSED is terminal: assigning to a closed conversation is
// refused instead of resurrecting it.
func (s *ConversationService) Assign(conversationID uuid.UUID, employeeID string) (domain.ConversationSummary, error) {
	conversation, err := s.conversations.FindConversation(conversationID)
	if err != nil {
		return domain.ConversationSummary{}, err
	}
	if conversation.Status == domain.StatusClosed {
		return domain.ConversationSummary{}, errors.ErrConversationClosed
	}
	employee, err := s.users.FindUser(employeeID)
	if err != nil {
		return domain.ConversationSummary{}, err
	}

	conversation.EmployeeID = &employeeID
	conversation.Status = domain.StatusOpen
	if err := s.conversations.SaveConversation(conversation); err != nil {
		return domain.ConversationSummary{}, err
	}

	s.push.Publish(event.ChannelKey(conversationID), event.EmployeeJoined{
		Conversation: conversationID,
		EmployeeID:   employeeID,
		EmployeeName: employee.Username,
	})

	s.log.Info("conversation assigned",
		"conversation_id", conversationID, "employee_id", employeeID)
	return s.summarize(conversation, nil), nil
}

// Close marks the conversation terminal. Closing an already-closed
// conversation returns the current view untouched: ClosedAt keeps its first
// value and no second event is emitted.
func (s *ConversationService) Close(conversationID uuid.UUID) (domain.ConversationSummary, error) {
	conversation, err := s.conversations.FindConversation(conversationID)
	if err != nil {
		return domain.ConversationSummary{}, err
	}
	if conversation.Status == domain.StatusClosed {
		return s.summarize(conversation, nil), nil
	}

	now := time.Now().UTC()
	conversation.Status = domain.StatusClosed
	conversation.ClosedAt = &now
	if err := s.conversations.SaveConversation(conversation); err != nil {
		return domain.ConversationSummary{}, err
	}

	s.push.Publish(event.ChannelKey(conversationID), event.ConversationClosed{
		Conversation: conversationID,
		ClosedAt:     now,
	})

	s.log.Info("conversation closed", "conversation_id", conversationID)
	return s.summarize(conversation, nil), nil
}

// ListFor returns the role-dependent view, newest created first.
// Admins see everything, employees see their own plus unassigned
// conversations open to claim, customers see only their own.
func (s *ConversationService) ListFor(userID string) ([]domain.ConversationSummary, error) {
	user, err := s.users.FindUser(userID)
	if err != nil {
		return nil, err
	}

	var conversations []domain.Conversation
	switch user.Role {
	case domain.RoleAdmin:
		conversations, err = s.conversations.AllNewestFirst()
	case domain.RoleEmployee:
		conversations, err = s.conversations.UnassignedOrOwnedBy(userID)
	default:
		conversations, err = s.conversations.ConversationsByUser(userID)
	}
	if err != nil {
		return nil, err
	}
	return s.summarizeAll(conversations), nil
}

// ListWaiting returns WAITING conversations oldest first. Nothing in this
// service sets WAITING; the status arrives through administrative tooling and
// this is purely a query over it.
func (s *ConversationService) ListWaiting() ([]domain.ConversationSummary, error) {
	conversations, err := s.conversations.ConversationsByStatus(domain.StatusWaiting)
	if err != nil {
		return nil, err
	}
	return s.summarizeAll(conversations), nil
}

// History returns the conversation's messages in chronological read order.
func (s *ConversationService) History(conversationID uuid.UUID) ([]domain.ChatMessage, error) {
	if _, err := s.conversations.FindConversation(conversationID); err != nil {
		return nil, err
	}
	return s.messages.MessagesByConversation(conversationID)
}

func (s *ConversationService) summarizeAll(conversations []domain.Conversation) []domain.ConversationSummary {
	// Memoize lookups: staff lists tend to repeat the same few users.
	names := make(map[string]string)
	return lo.Map(conversations, func(c domain.Conversation, _ int) domain.ConversationSummary {
		return s.summarizeCached(c, names)
	})
}

// summarize builds the client view. Display names are best effort: a failed
// lookup leaves the name empty rather than failing the operation.
func (s *ConversationService) summarize(c domain.Conversation, customer *domain.User) domain.ConversationSummary {
	if customer != nil {
		summary := s.view(c)
		summary.CustomerName = customer.Username
		return summary
	}
	return s.summarizeCached(c, nil)
}

func (s *ConversationService) summarizeCached(c domain.Conversation, names map[string]string) domain.ConversationSummary {
	summary := s.view(c)
	summary.CustomerName = s.username(names, c.CustomerID)
	if c.EmployeeID != nil {
		summary.EmployeeName = s.username(names, *c.EmployeeID)
	}
	return summary
}

func (s *ConversationService) view(c domain.Conversation) domain.ConversationSummary {
	return domain.ConversationSummary{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		EmployeeID: c.EmployeeID,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
		ClosedAt:   c.ClosedAt,
	}
}

func (s *ConversationService) username(cache map[string]string, id string) string {
	if cache != nil {
		if name, ok := cache[id]; ok {
			return name
		}
	}
	user, err := s.users.FindUser(id)
	if err != nil {
		s.log.Debug("display name lookup failed", "user_id", id, "error", err)
		return ""
	}
	if cache != nil {
		cache[id] = user.Username
	}
	return user.Username
}
