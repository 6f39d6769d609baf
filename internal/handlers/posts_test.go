package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/theory-forum/backend/internal/database/dbtest"
	"github.com/emilythestrangee/theory-forum/backend/internal/models"
)

func TestCreateAndListPosts(t *testing.T) {
	env := newTestEnv(t)
	authorID, token := env.user(t)
	_, voterToken := env.user(t)

	w := env.do(t, http.MethodPost, "/api/posts", token, map[string]string{"title": "Area 51", "body": "it's all true"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[models.Post](t, w)
	assert.Equal(t, authorID, first.AuthorID)
	assert.Equal(t, authorID, first.Author.ID)
	assert.Zero(t, first.Score)

	w = env.do(t, http.MethodPost, "/api/posts", token, map[string]string{"title": "Moon landing"})
	require.Equal(t, http.StatusCreated, w.Code)
	second := decode[models.Post](t, w)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/vote", first.ID), voterToken, map[string]int{"direction": 1})
	require.Equal(t, http.StatusOK, w.Code)

	top := decode[[]models.Post](t, env.do(t, http.MethodGet, "/api/posts?sort=top", "", nil))
	require.Len(t, top, 2)
	assert.Equal(t, first.ID, top[0].ID)
	assert.Equal(t, 1, top[0].Score)

	got := decode[models.Post](t, env.do(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", second.ID), "", nil))
	assert.Equal(t, "Moon landing", got.Title)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/posts/9999", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/posts/x", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/posts", token, map[string]string{"body": "no title"}).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/posts", "", map[string]string{"title": "t"}).Code)
}

func TestUpdatePost_KeepsScore(t *testing.T) {
	env := newTestEnv(t)
	authorID, token := env.user(t)
	_, voterToken := env.user(t)
	post := dbtest.CreatePost(t, env.db, authorID)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/vote", post.ID), voterToken, map[string]int{"direction": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", post.ID), token, map[string]string{"title": "edited"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Post](t, w)
	assert.Equal(t, "edited", updated.Title)
	assert.Equal(t, 1, updated.Score)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", post.ID), voterToken, map[string]string{"title": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	authorID, token := env.user(t)
	post := dbtest.CreatePost(t, env.db, authorID)
	path := fmt.Sprintf("/api/posts/%d/comments", post.ID)

	w := env.do(t, http.MethodPost, path, token, map[string]string{"body": "first"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	parent := decode[models.Comment](t, w)
	assert.Equal(t, authorID, parent.Author.ID)

	w = env.do(t, http.MethodPost, path, token, map[string]any{"body": "reply", "parent_comment_id": parent.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reply := decode[models.Comment](t, w)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, parent.ID, *reply.ParentCommentID)

	w = env.do(t, http.MethodPost, path, token, map[string]any{"body": "orphan", "parent_comment_id": 9999})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/posts/9999/comments", token, map[string]string{"body": "nowhere"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	comments := decode[[]models.Comment](t, env.do(t, http.MethodGet, path, "", nil))
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "reply", comments[1].Body)

	var stored models.Post
	require.NoError(t, env.db.First(&stored, post.ID).Error)
	assert.Equal(t, 2, stored.CommentCount)
}

func TestUpdateComment(t *testing.T) {
	env := newTestEnv(t)
	authorID, token := env.user(t)
	_, otherToken := env.user(t)
	post := dbtest.CreatePost(t, env.db, authorID)
	comment := dbtest.CreateComment(t, env.db, authorID, post.ID)
	path := fmt.Sprintf("/api/comments/%d", comment.ID)

	w := env.do(t, http.MethodPut, path, otherToken, map[string]string{"body": "not yours"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, path, token, map[string]string{"body": "edited"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "edited", decode[models.Comment](t, w).Body)
}

func TestUpdateUserProfile_KeepsReputation(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.user(t)
	_, voterToken := env.user(t)
	post := dbtest.CreatePost(t, env.db, userID)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/vote", post.ID), voterToken, map[string]int{"direction": -1})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d", userID), token, map[string]string{"bio": "truth seeker"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, env.db.First(&stored, userID).Error)
	assert.Equal(t, "truth seeker", stored.Bio)
	assert.Equal(t, -1, stored.Reputation)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d", userID), voterToken, map[string]string{"bio": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
