package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cineverse-chat/domain"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("unit-test-secret", time.Hour)

	token, err := manager.Generate("user-42", domain.RoleEmployee)
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := manager.Validate(token)
	req.NoError(err)
	req.Equal("user-42", claims.UserID)
	req.Equal(domain.RoleEmployee, claims.Role)
	req.Equal("cineverse-chat", claims.Issuer)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("secret-a", time.Hour)
	other := NewTokenManager("secret-b", time.Hour)

	token, err := manager.Generate("user-42", domain.RoleClient)
	req.NoError(err)

	_, err = other.Validate(token)
	req.Error(err)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("unit-test-secret", -time.Minute)

	token, err := manager.Generate("user-42", domain.RoleClient)
	req.NoError(err)

	_, err = manager.Validate(token)
	req.Error(err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("unit-test-secret", time.Hour)

	_, err := manager.Validate("not.a.jwt")
	req.Error(err)
}
