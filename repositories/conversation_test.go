package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"cineverse-chat/domain"
	"cineverse-chat/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestConversationRepository_SaveAndFind(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewConversationRepository(db, slog.Default())

	original := domain.Conversation{
		ID:         uuid.New(),
		CustomerID: "customer-1",
		Status:     domain.StatusOpen,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	req.NoError(repo.SaveConversation(original))

	found, err := repo.FindConversation(original.ID)
	req.NoError(err)
	req.Equal(original.ID, found.ID)
	req.Equal("customer-1", found.CustomerID)
	req.Equal(domain.StatusOpen, found.Status)
	req.Nil(found.EmployeeID)
	req.Nil(found.ClosedAt)
}

func TestConversationRepository_FindUnknown(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewConversationRepository(db, slog.Default())

	_, err := repo.FindConversation(uuid.New())
	req.ErrorIs(err, errors.ErrConversationNotFound)
}

func TestConversationRepository_SaveOverwrites(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewConversationRepository(db, slog.Default())

	conversation := domain.Conversation{
		ID:         uuid.New(),
		CustomerID: "customer-1",
		Status:     domain.StatusWaiting,
		CreatedAt:  time.Now().UTC(),
	}
	req.NoError(repo.SaveConversation(conversation))

	conversation.EmployeeID = lo.ToPtr("employee-7")
	conversation.Status = domain.StatusOpen
	req.NoError(repo.SaveConversation(conversation))

	found, err := repo.FindConversation(conversation.ID)
	req.NoError(err)
	req.Equal(domain.StatusOpen, found.Status)
	req.Equal("employee-7", *found.EmployeeID)
}

func TestConversationRepository_Ordering(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewConversationRepository(db, slog.Default())

	base := time.Now().UTC()
	oldest := seedConversation(req, repo, "customer-1", domain.StatusWaiting, base.Add(-3*time.Hour), nil)
	middle := seedConversation(req, repo, "customer-2", domain.StatusWaiting, base.Add(-2*time.Hour), nil)
	newest := seedConversation(req, repo, "customer-1", domain.StatusOpen, base.Add(-1*time.Hour), nil)

	t.Run("AllNewestFirst returns every conversation, newest created first", func(t *testing.T) {
		all, err := repo.AllNewestFirst()
		req.NoError(err)
		req.Len(all, 3)
		req.Equal(newest.ID, all[0].ID)
		req.Equal(middle.ID, all[1].ID)
		req.Equal(oldest.ID, all[2].ID)
	})

	t.Run("ConversationsByStatus returns a FIFO queue, oldest first", func(t *testing.T) {
		waiting, err := repo.ConversationsByStatus(domain.StatusWaiting)
		req.NoError(err)
		req.Len(waiting, 2)
		req.Equal(oldest.ID, waiting[0].ID)
		req.Equal(middle.ID, waiting[1].ID)
	})

	t.Run("ConversationsByUser filters on customer, newest first", func(t *testing.T) {
		owned, err := repo.ConversationsByUser("customer-1")
		req.NoError(err)
		req.Len(owned, 2)
		req.Equal(newest.ID, owned[0].ID)
		req.Equal(oldest.ID, owned[1].ID)
	})
}

func TestConversationRepository_UnassignedOrOwnedBy(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewConversationRepository(db, slog.Default())

	base := time.Now().UTC()
	orphan := seedConversation(req, repo, "customer-1", domain.StatusWaiting, base.Add(-3*time.Hour), nil)
	mine := seedConversation(req, repo, "customer-2", domain.StatusOpen, base.Add(-2*time.Hour), lo.ToPtr("employee-7"))
	seedConversation(req, repo, "customer-3", domain.StatusOpen, base.Add(-1*time.Hour), lo.ToPtr("employee-9"))

	visible, err := repo.UnassignedOrOwnedBy("employee-7")
	req.NoError(err)
	req.Len(visible, 2)

	// Newest first: the owned one was created after the orphan
	req.Equal(mine.ID, visible[0].ID)
	req.Equal(orphan.ID, visible[1].ID)
}

func seedConversation(req *require.Assertions, repo ConversationRepository,
	customerID string, status domain.ConversationStatus, createdAt time.Time,
	employeeID *string) domain.Conversation {
	c := domain.Conversation{
		ID:         uuid.New(),
		CustomerID: customerID,
		EmployeeID: employeeID,
		Status:     status,
		CreatedAt:  createdAt,
	}
	req.NoError(repo.SaveConversation(c))
	return c
}
