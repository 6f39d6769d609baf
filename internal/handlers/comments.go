package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/theory-forum/backend/internal/middleware"
	"github.com/emilythestrangee/theory-forum/backend/internal/models"
)

type CommentHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCommentHandler(db *gorm.DB, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{db: db, logger: logger}
}

var errPostNotFound = errors.New("post not found")
var errParentNotFound = errors.New("parent comment not found on this post")

// GetComments returns all comments for a post, oldest first
func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	comments := []models.Comment{}
	if err := h.db.WithContext(c.Request.Context()).Where("post_id = ?", postID).Preload("Author").Order("created_at asc, id asc").Find(&comments).Error; err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// CreateComment creates a comment on a post and bumps the post's comment
// count in the same transaction (PROTECTED)
func (h *CommentHandler) CreateComment(c *gin.Context) {
	authorID, err := middleware.VoterID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	postID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := models.Comment{
		Body:            input.Body,
		PostID:          postID,
		AuthorID:        authorID,
		ParentCommentID: input.ParentCommentID,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errPostNotFound
		}

		if input.ParentCommentID != nil {
			var n int64
			if err := tx.Model(&models.Comment{}).
				Where("id = ? AND post_id = ?", *input.ParentCommentID, postID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return errParentNotFound
			}
		}

		return tx.Omit("Author").Create(&comment).Error
	})
	switch {
	case errors.Is(err, errPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	case errors.Is(err, errParentNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		respondError(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Preload("Author").First(&comment, comment.ID).Error; err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("comment created", "comment_id", comment.ID, "post_id", comment.PostID, "author_id", comment.AuthorID)
	c.JSON(http.StatusCreated, comment)
}

// UpdateComment edits a comment's body (owner only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	authorID, err := middleware.VoterID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	commentID, err := pathID(c, "commentId")
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var comment models.Comment
	if err := h.db.WithContext(c.Request.Context()).First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.AuthorID != authorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own comments"})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(&comment).Update("body", input.Body).Error; err != nil {
		respondError(c, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Preload("Author").First(&comment, comment.ID).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}
