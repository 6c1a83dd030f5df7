package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cineverse-chat/contract"
	"cineverse-chat/domain"
	"cineverse-chat/domain/event"
	"cineverse-chat/errors"
	"cineverse-chat/mocks"
	"cineverse-chat/moderation"
	"cineverse-chat/repositories"
	"cineverse-chat/runtime/workers"
)

func TestDispatcher_PublishPrecedesEnqueue(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockIUserRepository(ctrl)
	conversations := mocks.NewMockIConversationRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	push := mocks.NewMockPushChannel(ctrl)
	pool := mocks.NewMockTaskSubmitter(ctrl)

	dispatcher := NewDispatcher(slog.Default(), users, conversations, messages,
		push, pool, nil)

	conversationID := uuid.New()
	users.EXPECT().
		FindUser("customer-1").
		Return(domain.User{ID: "customer-1", Username: "alice"}, nil).
		Times(1)

	var published event.MessagePublished
	publishCall := push.EXPECT().
		Publish(event.ChannelKey(conversationID), gomock.AssignableToTypeOf(event.MessagePublished{})).
		Do(func(_ string, evt event.ChannelEvent) {
			published = evt.(event.MessagePublished)
		}).
		Times(1)

	// Live delivery strictly precedes the persistence enqueue
	pool.EXPECT().
		Submit(gomock.Any()).
		Return(nil).
		Times(1).
		After(publishCall)

	msg := dispatcher.Dispatch(context.Background(), domain.SendMessageCommand{
		ConversationID: conversationID,
		SenderID:       "customer-1",
		Body:           "Is the 9pm screening still on?",
	})

	req.Equal("alice", msg.SenderName, "sender name should be enriched")
	req.Equal(domain.MessageText, msg.Type, "empty type defaults to TEXT")
	req.False(msg.SentAt.IsZero())
	req.Equal(msg, published.Message, "subscribers see the enriched message")
}

func TestDispatcher_DeliveryToleratesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockIUserRepository(ctrl)
	conversations := mocks.NewMockIConversationRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	push := mocks.NewMockPushChannel(ctrl)
	pool := mocks.NewMockTaskSubmitter(ctrl)

	dispatcher := NewDispatcher(slog.Default(), users, conversations, messages,
		push, pool, nil)

	t.Run("failed sender lookup still delivers with an empty name", func(t *testing.T) {
		req := require.New(t)
		users.EXPECT().
			FindUser("ghost").
			Return(domain.User{}, errors.ErrUserNotFound).
			Times(1)
		push.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1)
		pool.EXPECT().Submit(gomock.Any()).Return(nil).Times(1)

		msg := dispatcher.Dispatch(context.Background(), domain.SendMessageCommand{
			ConversationID: uuid.New(),
			SenderID:       "ghost",
			Body:           "anyone?",
		})

		req.Empty(msg.SenderName)
		req.Equal("anyone?", msg.Body)
	})

	t.Run("a rejected persistence task never reaches the sender", func(t *testing.T) {
		req := require.New(t)
		push.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1)
		pool.EXPECT().Submit(gomock.Any()).Return(errors.ErrQueueFull).Times(1)

		msg := dispatcher.Dispatch(context.Background(), domain.SendMessageCommand{
			ConversationID: uuid.New(),
			SenderID:       "customer-1",
			SenderName:     "alice",
			Body:           "still there?",
		})

		// Dispatch returned the live message despite the storage loss
		req.Equal("still there?", msg.Body)
	})
}

func TestDispatcher_PersistValidatesReferences(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockIUserRepository(ctrl)
	conversations := mocks.NewMockIConversationRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	push := mocks.NewMockPushChannel(ctrl)
	pool := mocks.NewMockTaskSubmitter(ctrl)

	dispatcher := NewDispatcher(slog.Default(), users, conversations, messages,
		push, pool, nil)

	push.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

	// Capture the task instead of running it on a real pool
	var captured contract.Task
	pool.EXPECT().
		Submit(gomock.Any()).
		DoAndReturn(func(task contract.Task) error {
			captured = task
			return nil
		}).
		AnyTimes()

	t.Run("missing conversation aborts the single write", func(t *testing.T) {
		req := require.New(t)
		conversationID := uuid.New()

		dispatcher.Dispatch(context.Background(), domain.SendMessageCommand{
			ConversationID: conversationID,
			SenderID:       "customer-1",
			SenderName:     "alice",
			Body:           "hello",
		})

		conversations.EXPECT().
			FindConversation(conversationID).
			Return(domain.Conversation{}, errors.ErrConversationNotFound).
			Times(1)
		messages.EXPECT().SaveMessage(gomock.Any()).Times(0)

		err := captured.Run(context.Background())
		req.ErrorIs(err, errors.ErrConversationNotFound)
	})

	t.Run("missing sender aborts the single write", func(t *testing.T) {
		req := require.New(t)
		conversationID := uuid.New()

		dispatcher.Dispatch(context.Background(), domain.SendMessageCommand{
			ConversationID: conversationID,
			SenderID:       "deleted-user",
			SenderName:     "alice",
			Body:           "hello",
		})

		conversations.EXPECT().
			FindConversation(conversationID).
			Return(domain.Conversation{ID: conversationID}, nil).
			Times(1)
		users.EXPECT().
			FindUser("deleted-user").
			Return(domain.User{}, errors.ErrUserNotFound).
			Times(1)
		messages.EXPECT().SaveMessage(gomock.Any()).Times(0)

		err := captured.Run(context.Background())
		req.ErrorIs(err, errors.ErrUserNotFound)
	})
}

func TestDispatcher_ModerationMasksText(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockIUserRepository(ctrl)
	conversations := mocks.NewMockIConversationRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	push := mocks.NewMockPushChannel(ctrl)
	pool := mocks.NewMockTaskSubmitter(ctrl)

	moderator, err := moderation.NewModerator([]string{"scammer"}, '*', slog.Default())
	req.NoError(err)

	dispatcher := NewDispatcher(slog.Default(), users, conversations, messages,
		push, pool, &moderator)

	push.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1)
	pool.EXPECT().Submit(gomock.Any()).Return(nil).Times(1)

	msg := dispatcher.Dispatch(context.Background(), domain.SendMessageCommand{
		ConversationID: uuid.New(),
		SenderID:       "customer-1",
		SenderName:     "alice",
		Body:           "you are a scammer",
		Type:           domain.MessageText,
	})

	req.Equal("you are a *******", msg.Body)
}

// Full path on real storage: dispatch goes out live, the pool drains, and the
// history read returns exactly the one enriched message.
func TestDispatcher_EndToEndPersistence(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	userRepo := repositories.NewUserRepository(db)
	conversationRepo := repositories.NewConversationRepository(db, log)
	messageRepo := repositories.NewMessageRepository(db, log)

	customerID, err := userRepo.CreateUser("alice@example.com", "alice", "hash", domain.RoleClient)
	req.NoError(err)

	conversationID := uuid.New()
	req.NoError(conversationRepo.SaveConversation(domain.Conversation{
		ID:         conversationID,
		CustomerID: customerID,
		Status:     domain.StatusOpen,
		CreatedAt:  time.Now().UTC(),
	}))

	pool := workers.NewPersistencePool(log, 4, 16)
	pool.Start(context.Background())

	delivered := make(chan event.ChannelEvent, 1)
	dispatcher := NewDispatcher(log, userRepo, conversationRepo, messageRepo,
		pushFunc(func(channelKey string, evt event.ChannelEvent) {
			delivered <- evt
		}), pool, nil)

	msg := dispatcher.Dispatch(context.Background(), domain.SendMessageCommand{
		ConversationID: conversationID,
		SenderID:       customerID,
		Body:           "Is the 9pm screening still on?",
	})

	// Live delivery already happened when Dispatch returned
	req.Len(delivered, 1)
	req.Equal("alice", msg.SenderName)

	// Drain the pool, then the durable copy must be readable
	pool.Shutdown(2 * time.Second)

	history, err := messageRepo.MessagesByConversation(conversationID)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(msg.ID, history[0].ID)
	req.Equal("Is the 9pm screening still on?", history[0].Body)
	req.Equal("alice", history[0].SenderName)
}

// pushFunc adapts a function to the PushChannel contract.
type pushFunc func(channelKey string, evt event.ChannelEvent)

func (f pushFunc) Publish(channelKey string, evt event.ChannelEvent) {
	f(channelKey, evt)
}
