package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/theory-forum/backend/internal/middleware"
	"github.com/emilythestrangee/theory-forum/backend/internal/models"
)

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "mulder",
		"email":    "mulder@example.com",
		"password": "trustno1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[models.AuthResponse](t, w)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "mulder", registered.User.Username)
	assert.NotContains(t, w.Body.String(), "trustno1")

	id, err := middleware.ParseToken([]byte(testSecret), registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, id)

	w = env.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "mulder",
		"email":    "other@example.com",
		"password": "trustno1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "mulder@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "mulder@example.com",
		"password": "trustno1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[models.AuthResponse](t, w)

	w = env.do(t, http.MethodGet, "/api/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.User](t, w)
	assert.Equal(t, registered.User.ID, me.ID)
	assert.Zero(t, me.Reputation)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing username", map[string]string{"email": "a@example.com", "password": "secret1"}},
		{"bad email", map[string]string{"username": "a", "email": "nope", "password": "secret1"}},
		{"short password", map[string]string{"username": "a", "email": "a@example.com", "password": "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
