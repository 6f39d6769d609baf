package handlers

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/emilythestrangee/theory-forum/backend/internal/config"
	"github.com/emilythestrangee/theory-forum/backend/internal/voting"
)

// VoteCaster is the part of the voting engine the HTTP layer drives.
type VoteCaster interface {
	Cast(ctx context.Context, voterID int, target voting.Target, dir voting.Direction) (voting.Result, error)
	CurrentVote(ctx context.Context, voterID int, target voting.Target) (voting.Direction, error)
}

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
	User    *UserHandler
	Vote    *VoteHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, engine VoteCaster, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(db, []byte(cfg.JWTSecret), cfg.JWTTTL, logger),
		Post:    NewPostHandler(db, logger),
		Comment: NewCommentHandler(db, logger),
		User:    NewUserHandler(db, logger),
		Vote:    NewVoteHandler(engine),
	}
}
