//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"cineverse-chat/domain"
	"cineverse-chat/errors"
)

const conversationPrefix = "conv:"

type IConversationRepository interface {
	SaveConversation(c domain.Conversation) error
	FindConversation(id uuid.UUID) (domain.Conversation, error)
	AllNewestFirst() ([]domain.Conversation, error)
	ConversationsByUser(customerID string) ([]domain.Conversation, error)
	ConversationsByStatus(status domain.ConversationStatus) ([]domain.Conversation, error)
	UnassignedOrOwnedBy(employeeID string) ([]domain.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) ConversationRepository {
	return ConversationRepository{db: db, log: log}
}

// diskConversation is the storage-layer representation of a conversation.
type diskConversation struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID string     `json:"customer_id"`
	EmployeeID *string    `json:"employee_id,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

func (r ConversationRepository) SaveConversation(c domain.Conversation) error {
	data, err := marshalValue(fromConversation(c))
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", c.ID, err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(conversationPrefix+c.ID.String()), data)
	})
}

func (r ConversationRepository) FindConversation(id uuid.UUID) (domain.Conversation, error) {
	var disk diskConversation
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(conversationPrefix + id.String()))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalValue(val, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Conversation{}, errors.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	return toConversation(disk), nil
}

// AllNewestFirst returns every conversation in the system, newest created
// first. Used by the admin view.
func (r ConversationRepository) AllNewestFirst() ([]domain.Conversation, error) {
	all, err := r.scanAll()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(all)
	return all, nil
}

func (r ConversationRepository) ConversationsByUser(customerID string) ([]domain.Conversation, error) {
	all, err := r.scanAll()
	if err != nil {
		return nil, err
	}
	owned := lo.Filter(all, func(c domain.Conversation, _ int) bool {
		return c.CustomerID == customerID
	})
	sortNewestFirst(owned)
	return owned, nil
}

// ConversationsByStatus returns matching conversations oldest first,
// FIFO semantics for the staff triage queue.
func (r ConversationRepository) ConversationsByStatus(status domain.ConversationStatus) ([]domain.Conversation, error) {
	all, err := r.scanAll()
	if err != nil {
		return nil, err
	}
	matching := lo.Filter(all, func(c domain.Conversation, _ int) bool {
		return c.Status == status
	})
	sort.Slice(matching, func(i, j int) bool {
		return matching[i].CreatedAt.Before(matching[j].CreatedAt)
	})
	return matching, nil
}

// UnassignedOrOwnedBy is the employee view: conversations assigned to them
// plus orphans available to claim.
func (r ConversationRepository) UnassignedOrOwnedBy(employeeID string) ([]domain.Conversation, error) {
	all, err := r.scanAll()
	if err != nil {
		return nil, err
	}
	visible := lo.Filter(all, func(c domain.Conversation, _ int) bool {
		return c.EmployeeID == nil || *c.EmployeeID == employeeID
	})
	sortNewestFirst(visible)
	return visible, nil
}

// scanAll walks the conversation keyspace. The store is small enough for a
// full prefix scan; secondary indexes are not worth their upkeep here.
func (r ConversationRepository) scanAll() ([]domain.Conversation, error) {
	var result []domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(conversationPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskConversation
			err := it.Item().Value(func(val []byte) error {
				return unmarshalValue(val, &disk)
			})
			if err != nil {
				return err
			}
			result = append(result, toConversation(disk))
		}
		return nil
	})
	return result, err
}

func sortNewestFirst(conversations []domain.Conversation) {
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})
}

func fromConversation(c domain.Conversation) diskConversation {
	return diskConversation{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		EmployeeID: c.EmployeeID,
		Status:     string(c.Status),
		CreatedAt:  c.CreatedAt,
		ClosedAt:   c.ClosedAt,
	}
}

func toConversation(d diskConversation) domain.Conversation {
	return domain.Conversation{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		EmployeeID: d.EmployeeID,
		Status:     domain.ConversationStatus(d.Status),
		CreatedAt:  d.CreatedAt,
		ClosedAt:   d.ClosedAt,
	}
}
