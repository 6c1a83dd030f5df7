//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"fmt"

	"cineverse-chat/auth"
	"cineverse-chat/domain"
	"cineverse-chat/errors"
	"cineverse-chat/repositories"
)

type IAuthService interface {
	Login(email, password string) (Token, error)
	Register(email, username, password string) (Token, error)
}

type Token string

func (t Token) String() string {
	return string(t)
}

type AuthService struct {
	users  repositories.IUserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users repositories.IUserRepository, tokens *auth.TokenManager) IAuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register validates, hashes, and persists a new customer account, then
// issues its first session token. Staff accounts are provisioned elsewhere.
func (s *AuthService) Register(email, username, password string) (Token, error) {
	req := auth.RegisterRequest{Email: email, Username: username, Password: password}
	if err := auth.ValidateRegister(req); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hashing stays in the service layer so the repository never sees a
	// plain password.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.users.CreateUser(email, username, hashedPassword, domain.RoleClient)
	if err != nil {
		return "", err // propagates ErrUserAlreadyExists if the email is taken
	}

	token, err := s.tokens.Generate(userID, domain.RoleClient)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, error) {
	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}
