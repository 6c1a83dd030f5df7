package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"cineverse-chat/errors"
	"cineverse-chat/services"
)

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns a token on valid credentials", func(t *testing.T) {
		req := require.New(t)
		fixture := newAPIFixture(t)

		fixture.authService.EXPECT().
			Login("alice@example.com", "Secret123456!").
			Return(services.Token("signed-jwt"), nil).
			Times(1)

		w := fixture.do(t, http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "alice@example.com",
			"password": "Secret123456!",
		})

		req.Equal(http.StatusOK, w.Code)

		var body struct {
			Token string `json:"token"`
		}
		req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
		req.Equal("signed-jwt", body.Token)
	})

	t.Run("maps bad credentials to 401", func(t *testing.T) {
		req := require.New(t)
		fixture := newAPIFixture(t)

		fixture.authService.EXPECT().
			Login("alice@example.com", "wrong").
			Return(services.Token(""), errors.ErrInvalidCredentials).
			Times(1)

		w := fixture.do(t, http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "alice@example.com",
			"password": "wrong",
		})

		req.Equal(http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with the first session token", func(t *testing.T) {
		req := require.New(t)
		fixture := newAPIFixture(t)

		fixture.authService.EXPECT().
			Register("alice@example.com", "alice", "Secret123456!").
			Return(services.Token("fresh-jwt"), nil).
			Times(1)

		w := fixture.do(t, http.MethodPost, "/api/auth/register", map[string]any{
			"email":    "alice@example.com",
			"username": "alice",
			"password": "Secret123456!",
		})

		req.Equal(http.StatusCreated, w.Code)
	})

	t.Run("maps a taken email to 409", func(t *testing.T) {
		req := require.New(t)
		fixture := newAPIFixture(t)

		fixture.authService.EXPECT().
			Register("dup@example.com", "dup", "Secret123456!").
			Return(services.Token(""), errors.ErrUserAlreadyExists).
			Times(1)

		w := fixture.do(t, http.MethodPost, "/api/auth/register", map[string]any{
			"email":    "dup@example.com",
			"username": "dup",
			"password": "Secret123456!",
		})

		req.Equal(http.StatusConflict, w.Code)
	})

	t.Run("maps a weak password to 400", func(t *testing.T) {
		req := require.New(t)
		fixture := newAPIFixture(t)

		fixture.authService.EXPECT().
			Register("alice@example.com", "alice", "short").
			Return(services.Token(""), errors.ErrInvalidPassword).
			Times(1)

		w := fixture.do(t, http.MethodPost, "/api/auth/register", map[string]any{
			"email":    "alice@example.com",
			"username": "alice",
			"password": "short",
		})

		req.Equal(http.StatusBadRequest, w.Code)
	})
}
