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

type PostHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPostHandler(db *gorm.DB, logger *slog.Logger) *PostHandler {
	return &PostHandler{db: db, logger: logger}
}

// postOrder maps the ?sort= query onto an ORDER BY clause.
func postOrder(sort string) string {
	if sort == "top" {
		return "score desc, created_at desc"
	}
	return "created_at desc"
}

// GetPosts lists posts, newest first or by score with ?sort=top
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts := []models.Post{}

	if err := h.db.WithContext(c.Request.Context()).Preload("Author").Order(postOrder(c.Query("sort"))).Find(&posts).Error; err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var post models.Post
	if err := h.db.WithContext(c.Request.Context()).Preload("Author").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// GetUserPosts returns all posts by a specific user
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	posts := []models.Post{}
	if err := h.db.WithContext(c.Request.Context()).Preload("Author").Where("author_id = ?", userID).Order("created_at desc").Find(&posts).Error; err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	authorID, err := middleware.VoterID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	post := models.Post{
		Title:    input.Title,
		Body:     input.Body,
		Image:    input.Image,
		AuthorID: authorID,
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("Author").Create(&post).Error; err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	// Reload with author information
	if err := h.db.WithContext(c.Request.Context()).Preload("Author").First(&post, post.ID).Error; err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("post created", "post_id", post.ID, "author_id", post.AuthorID)
	c.JSON(http.StatusCreated, post)
}

// UpdatePost edits title and body (PROTECTED - requires ownership).
// Score is never written here; it belongs to the voting engine.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, err := middleware.VoterID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	postID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.Post
	if err := h.db.WithContext(c.Request.Context()).First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}

	updates := map[string]any{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Body != "" {
		updates["body"] = input.Body
	}
	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(&post).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	if err := h.db.WithContext(c.Request.Context()).Preload("Author").First(&post, post.ID).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
