package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/theory-forum/backend/internal/middleware"
	"github.com/emilythestrangee/theory-forum/backend/internal/voting"
)

// VoteHandler exposes the engine over HTTP. The engine logs casts itself.
type VoteHandler struct {
	engine VoteCaster
}

func NewVoteHandler(engine VoteCaster) *VoteHandler {
	return &VoteHandler{engine: engine}
}

type voteRequest struct {
	Direction *int `json:"direction" binding:"required"`
}

// VotePost casts the caller's vote on a post (PROTECTED)
func (h *VoteHandler) VotePost(c *gin.Context) {
	h.cast(c, "id", voting.PostTarget)
}

// VoteComment casts the caller's vote on a comment (PROTECTED)
func (h *VoteHandler) VoteComment(c *gin.Context) {
	h.cast(c, "commentId", voting.CommentTarget)
}

// GetPostVote returns the caller's current vote on a post (PROTECTED)
func (h *VoteHandler) GetPostVote(c *gin.Context) {
	h.current(c, "id", voting.PostTarget)
}

// GetCommentVote returns the caller's current vote on a comment (PROTECTED)
func (h *VoteHandler) GetCommentVote(c *gin.Context) {
	h.current(c, "commentId", voting.CommentTarget)
}

func (h *VoteHandler) cast(c *gin.Context, param string, target func(int) voting.Target) {
	voterID, err := middleware.VoterID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := pathID(c, param)
	if err != nil {
		respondError(c, err)
		return
	}

	var input voteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, fmt.Errorf("direction must be 1 or -1: %w", voting.ErrInvalidArgument))
		return
	}

	res, err := h.engine.Cast(c.Request.Context(), voterID, target(id), voting.Direction(*input.Direction))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    id,
		"score": res.Score,
		"vote":  int(res.Direction),
	})
}

func (h *VoteHandler) current(c *gin.Context, param string, target func(int) voting.Target) {
	voterID, err := middleware.VoterID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := pathID(c, param)
	if err != nil {
		respondError(c, err)
		return
	}

	dir, err := h.engine.CurrentVote(c.Request.Context(), voterID, target(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "vote": int(dir)})
}
