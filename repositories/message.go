//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"cineverse-chat/domain"
)

type IMessageRepository interface {
	SaveMessage(m domain.ChatMessage) error
	MessagesByConversation(conversationID uuid.UUID) ([]domain.ChatMessage, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// diskMessage is the storage-layer representation of a chat message.
type diskMessage struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	SenderName     string     `json:"sender_name,omitempty"`
	Body           string     `json:"body"`
	Type           string     `json:"type"`
	SentAt         time.Time  `json:"sent_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
}

// SaveMessage persists a message in BadgerDB.
// The key is formatted as "msg:{conversation_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (r MessageRepository) SaveMessage(m domain.ChatMessage) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		m.ConversationID,
		m.SentAt.UnixNano(),
		m.ID,
	)
	data, err := marshalValue(fromMessage(m))
	if err != nil {
		return fmt.Errorf("encode message %s: %w", m.ID, err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// MessagesByConversation retrieves a conversation's history via a prefix scan.
// Thanks to the padded timestamp in the key, a forward iteration yields the
// messages oldest first, which is the chronological read order.
func (r MessageRepository) MessagesByConversation(conversationID uuid.UUID) ([]domain.ChatMessage, error) {
	var history []domain.ChatMessage
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("msg:%s:", conversationID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskMessage
			err := it.Item().Value(func(val []byte) error {
				return unmarshalValue(val, &disk)
			})
			if err != nil {
				return err
			}
			history = append(history, toMessage(disk))
		}
		return nil
	})
	return history, err
}

func fromMessage(m domain.ChatMessage) diskMessage {
	return diskMessage{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		SenderName:     m.SenderName,
		Body:           m.Body,
		Type:           string(m.Type),
		SentAt:         m.SentAt,
		ReadAt:         m.ReadAt,
	}
}

func toMessage(d diskMessage) domain.ChatMessage {
	return domain.ChatMessage{
		ID:             d.ID,
		ConversationID: d.ConversationID,
		SenderID:       d.SenderID,
		SenderName:     d.SenderName,
		Body:           d.Body,
		Type:           domain.MessageType(d.Type),
		SentAt:         d.SentAt,
		ReadAt:         d.ReadAt,
	}
}
