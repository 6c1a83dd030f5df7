// Package runtime coordinates message flow between the transport layer, the
// push channel, and the persistence pool. It carries no business rules of its
// own beyond enrichment.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"

	"cineverse-chat/contract"
	"cineverse-chat/domain"
	"cineverse-chat/domain/event"
	"cineverse-chat/moderation"
	"cineverse-chat/repositories"
)

// Dispatcher handles one inbound chat message end to end: enrich, publish,
// schedule persistence. The publish step runs synchronously on the calling
// goroutine and completes before Dispatch returns; the durable write happens
// later on a pool worker and its outcome never reaches the sender.
type Dispatcher struct {
	log           *slog.Logger
	users         repositories.IUserRepository
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	push          contract.PushChannel
	pool          contract.TaskSubmitter
	moderator     *moderation.Moderator
}

func NewDispatcher(
	log *slog.Logger,
	users repositories.IUserRepository,
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	push contract.PushChannel,
	pool contract.TaskSubmitter,
	moderator *moderation.Moderator,
) *Dispatcher {
	return &Dispatcher{
		log:           log,
		users:         users,
		conversations: conversations,
		messages:      messages,
		push:          push,
		pool:          pool,
		moderator:     moderator,
	}
}

// Dispatch stamps, enriches, and publishes the message, then hands the
// durable write to the pool. It returns the enriched message immediately;
// callers never wait on storage.
func (d *Dispatcher) Dispatch(_ context.Context, cmd domain.SendMessageCommand) domain.ChatMessage {
	msg := domain.ChatMessage{
		ID:             uuid.New(),
		ConversationID: cmd.ConversationID,
		SenderID:       cmd.SenderID,
		SenderName:     cmd.SenderName,
		Body:           cmd.Body,
		Type:           cmd.Type,
		SentAt:         time.Now().UTC(),
	}
	if msg.Type == "" {
		msg.Type = domain.MessageText
	}

	if d.moderator != nil && msg.Type == domain.MessageText {
		masked, found := d.moderator.Censor(msg.Body)
		if len(found) > 0 {
			info := whatlanggo.Detect(msg.Body)
			d.log.Warn("censored message content",
				"conversation_id", msg.ConversationID,
				"sender_id", msg.SenderID,
				"words", len(found),
				"lang", info.Lang.Iso6391())
		}
		msg.Body = masked
	}

	// Display-name resolution is best effort. A failed lookup must never
	// hold up delivery; the message goes out with an empty name.
	if msg.SenderName == "" {
		sender, err := d.users.FindUser(msg.SenderID)
		if err != nil {
			d.log.Warn("sender name resolution failed",
				"sender_id", msg.SenderID, "error", err)
		} else {
			msg.SenderName = sender.Username
		}
	}

	// Publish happens-before the persistence task is even enqueued.
	// Subscribers must perceive the message with no storage latency in the path.
	d.push.Publish(event.ChannelKey(msg.ConversationID), event.MessagePublished{Message: msg})

	task := contract.Task{
		Name: fmt.Sprintf("persist message %s", msg.ID),
		Run: func(ctx context.Context) error {
			return d.persist(ctx, msg)
		},
	}
	if err := d.pool.Submit(task); err != nil {
		// The message was already delivered live; the durable copy is lost.
		d.log.Error("persistence task rejected, message not stored",
			"message_id", msg.ID,
			"conversation_id", msg.ConversationID,
			"error", err)
	}

	return msg
}

// persist runs inside a pool worker. A missing conversation or sender aborts
// this single write; the failure is logged by the pool and never retried.
func (d *Dispatcher) persist(_ context.Context, msg domain.ChatMessage) error {
	if _, err := d.conversations.FindConversation(msg.ConversationID); err != nil {
		return fmt.Errorf("message %s dropped: %w", msg.ID, err)
	}
	if _, err := d.users.FindUser(msg.SenderID); err != nil {
		return fmt.Errorf("message %s dropped: %w", msg.ID, err)
	}
	return d.messages.SaveMessage(msg)
}
