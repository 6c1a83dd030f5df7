//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"cineverse-chat/domain"
	"cineverse-chat/errors"
)

const (
	userPrefix      = "user:"
	userEmailPrefix = "user:email:"
)

type IUserRepository interface {
	CreateUser(email, username, hashedPassword string, role domain.Role) (string, error)
	FindUser(id string) (domain.User, error)
	FindUserByEmail(email string) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

type diskUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUser persists the user under "user:{id}" plus an email index entry
// pointing back to the id. Returns the newly generated user ID.
func (u *UserRepository) CreateUser(email, username, hashedPassword string, role domain.Role) (string, error) {
	newID := uuid.NewString()
	data, err := marshalValue(diskUser{
		ID:           newID,
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         string(role),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		indexKey := []byte(userEmailPrefix + email)
		if _, err := txn.Get(indexKey); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set([]byte(userPrefix+newID), data); err != nil {
			return err
		}
		return txn.Set(indexKey, []byte(newID))
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

func (u *UserRepository) FindUser(id string) (domain.User, error) {
	var disk diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalValue(val, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return toUser(disk), nil
}

// FindUserByEmail resolves the email index first, then loads the record.
func (u *UserRepository) FindUserByEmail(email string) (domain.User, error) {
	var id string
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userEmailPrefix + email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u.FindUser(id)
}

func toUser(d diskUser) domain.User {
	return domain.User{
		ID:           d.ID,
		Email:        d.Email,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt,
	}
}
