package projection

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"cineverse-chat/domain"
	"cineverse-chat/domain/event"
)

func TestTimeline_Record_KeepsConversationsApart(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(10)

	first := uuid.New()
	second := uuid.New()

	timeline.Record(messageEvent(first, "hello"))
	timeline.Record(messageEvent(second, "other room"))
	timeline.Record(messageEvent(first, "anyone there?"))

	req.Len(timeline.Recent(first), 2)
	req.Len(timeline.Recent(second), 1)
	req.Empty(timeline.Recent(uuid.New()))
}

func TestTimeline_Record_EvictsOldestBeyondLimit(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(3)
	conversationID := uuid.New()

	for i := 0; i < 5; i++ {
		timeline.Record(messageEvent(conversationID, fmt.Sprintf("msg-%d", i)))
	}

	window := timeline.Recent(conversationID)
	req.Len(window, 3)

	// Oldest first, the two earliest entries are gone
	oldest := window[0].(event.MessagePublished)
	newest := window[2].(event.MessagePublished)
	req.Equal("msg-2", oldest.Message.Body)
	req.Equal("msg-4", newest.Message.Body)
}

func TestTimeline_Recent_ReturnsACopy(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(10)
	conversationID := uuid.New()

	timeline.Record(messageEvent(conversationID, "original"))

	window := timeline.Recent(conversationID)
	window[0] = messageEvent(conversationID, "mutated")

	fresh := timeline.Recent(conversationID)
	req.Equal("original", fresh[0].(event.MessagePublished).Message.Body)
}

func messageEvent(conversationID uuid.UUID, body string) event.MessagePublished {
	return event.MessagePublished{
		Message: domain.ChatMessage{
			ID:             uuid.New(),
			ConversationID: conversationID,
			SenderID:       "customer-1",
			Body:           body,
			Type:           domain.MessageText,
			SentAt:         time.Now().UTC(),
		},
	}
}
