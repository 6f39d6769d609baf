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

type UserHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserHandler(db *gorm.DB, logger *slog.Logger) *UserHandler {
	return &UserHandler{db: db, logger: logger}
}

// GetUserProfile returns a user's profile, reputation and posts
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(c, err)
		return
	}

	posts := []models.Post{}
	if err := h.db.WithContext(c.Request.Context()).Where("author_id = ?", userID).Order("created_at desc").Find(&posts).Error; err != nil {
		respondError(c, err)
		return
	}

	var commentCount int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.Comment{}).Where("author_id = ?", userID).Count(&commentCount).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"bio":        user.Bio,
			"avatar":     user.Avatar,
			"reputation": user.Reputation,
			"created_at": user.CreatedAt,
		},
		"posts":         posts,
		"comment_count": commentCount,
	})
}

// UpdateUserProfile edits bio and avatar of the caller's own profile.
// Reputation is never written here; it belongs to the voting engine.
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	authUserID, err := middleware.VoterID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	userID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	// Check if user is updating their own profile
	if authUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own profile"})
		return
	}

	var input struct {
		Bio    string `json:"bio"`
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]any{}
	if input.Bio != "" {
		updates["bio"] = input.Bio
	}
	if input.Avatar != "" {
		updates["avatar"] = input.Avatar
	}
	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(&user).Updates(updates).Error; err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		h.logger.Debug("profile updated", "user_id", user.ID, "fields", len(updates))
	}

	c.JSON(http.StatusOK, user)
}
