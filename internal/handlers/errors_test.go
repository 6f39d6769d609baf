package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/emilythestrangee/theory-forum/backend/internal/middleware"
	"github.com/emilythestrangee/theory-forum/backend/internal/voting"
)

func TestRespondError_Status(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		want  int
		level string
	}{
		{"invalid argument", fmt.Errorf("direction 3: %w", voting.ErrInvalidArgument), http.StatusBadRequest, "level=WARN"},
		{"not found", fmt.Errorf("post 9: %w", voting.ErrNotFound), http.StatusNotFound, "level=WARN"},
		{"unauthenticated", voting.ErrUnauthenticated, http.StatusUnauthorized, "level=WARN"},
		{"storage", errors.New("disk full"), http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := gin.New()
			r.Use(middleware.Logger(slog.New(slog.NewTextHandler(&buf, nil))))
			r.GET("/fail", func(c *gin.Context) { respondError(c, tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, 1, strings.Count(buf.String(), "\n"), buf.String())
			assert.Contains(t, buf.String(), tt.level)
		})
	}
}

func TestRespondError_InternalDetailOnlyInLog(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(middleware.Logger(slog.New(slog.NewTextHandler(&buf, nil))))
	r.GET("/fail", func(c *gin.Context) { respondError(c, errors.New("connection reset by peer")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
	assert.Equal(t, 1, strings.Count(buf.String(), "level=ERROR"))
	assert.Contains(t, buf.String(), "connection reset by peer")
}

func TestHandlers_QueriesUseRequestContext(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.user(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, path := range []string{"/api/posts", "/api/posts/1", "/api/posts/1/comments", "/api/users/1", "/api/me"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			e.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
		})
	}
}
