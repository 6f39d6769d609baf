// Package dbtest provides migrated throwaway databases and fixtures for tests.
package dbtest

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/theory-forum/backend/internal/database"
	"github.com/emilythestrangee/theory-forum/backend/internal/models"
)

var seq atomic.Int64

// Open returns a migrated in-memory SQLite database. The pool is pinned to
// one connection so the database lives as long as the handle and
// transactions run one at a time.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with a unique username and email.
func CreateUser(t testing.TB, db *gorm.DB) models.User {
	t.Helper()

	n := seq.Add(1)
	user := models.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Password: "not-a-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func CreatePost(t testing.TB, db *gorm.DB, authorID int) models.Post {
	t.Helper()

	post := models.Post{
		Title:    fmt.Sprintf("post %d", seq.Add(1)),
		Body:     "body",
		AuthorID: authorID,
	}
	require.NoError(t, db.Omit("Author").Create(&post).Error)
	return post
}

func CreateComment(t testing.TB, db *gorm.DB, authorID, postID int) models.Comment {
	t.Helper()

	comment := models.Comment{
		Body:     fmt.Sprintf("comment %d", seq.Add(1)),
		AuthorID: authorID,
		PostID:   postID,
	}
	require.NoError(t, db.Omit("Author").Create(&comment).Error)
	return comment
}
