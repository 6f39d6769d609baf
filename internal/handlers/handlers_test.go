package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/theory-forum/backend/internal/config"
	"github.com/emilythestrangee/theory-forum/backend/internal/database"
	"github.com/emilythestrangee/theory-forum/backend/internal/database/dbtest"
	"github.com/emilythestrangee/theory-forum/backend/internal/middleware"
	"github.com/emilythestrangee/theory-forum/backend/internal/voting"
)

const testSecret = "handler-test-secret-0123"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

// newTestEnv builds a router over an in-memory database and the real engine.
// Routes mirror the server's, without CORS and metrics.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := voting.NewEngine(database.NewVoteStore(db), voting.WithLogger(logger))
	cfg := &config.Config{JWTSecret: testSecret, JWTTTL: time.Hour}
	h := NewHandler(db, engine, cfg, logger)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api")
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.GET("/posts", h.Post.GetPosts)
	api.GET("/posts/:id", h.Post.GetPost)
	api.GET("/posts/:id/comments", h.Comment.GetComments)
	api.GET("/users/:id", h.User.GetUserProfile)

	protected := api.Group("", middleware.AuthMiddleware([]byte(testSecret)))
	protected.GET("/me", h.Auth.GetMe)
	protected.POST("/posts", h.Post.CreatePost)
	protected.PUT("/posts/:id", h.Post.UpdatePost)
	protected.POST("/posts/:id/comments", h.Comment.CreateComment)
	protected.PUT("/comments/:commentId", h.Comment.UpdateComment)
	protected.PUT("/users/:id", h.User.UpdateUserProfile)
	protected.POST("/posts/:id/vote", h.Vote.VotePost)
	protected.GET("/posts/:id/vote", h.Vote.GetPostVote)
	protected.POST("/comments/:commentId/vote", h.Vote.VoteComment)
	protected.GET("/comments/:commentId/vote", h.Vote.GetCommentVote)

	return &testEnv{db: db, router: r}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// user creates a user and returns its id with a bearer token.
func (e *testEnv) user(t *testing.T) (int, string) {
	t.Helper()

	u := dbtest.CreateUser(t, e.db)
	token, err := middleware.IssueToken([]byte(testSecret), u.ID, u.Username, time.Hour)
	require.NoError(t, err)
	return u.ID, token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
