package models

import "time"

type Comment struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	Body            string    `gorm:"type:text;not null" json:"body"`
	AuthorID        int       `gorm:"not null;index" json:"author_id"`
	Author          User      `gorm:"foreignKey:AuthorID" json:"author"`
	PostID          int       `gorm:"not null;index" json:"post_id"`
	ParentCommentID *int      `json:"parent_comment_id,omitempty"`
	Score           int       `gorm:"not null;default:0" json:"score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c *Comment) CurrentScore() int { return c.Score }
func (c *Comment) OwnerID() int      { return c.AuthorID }

type CreateCommentRequest struct {
	Body            string `json:"body" binding:"required"`
	ParentCommentID *int   `json:"parent_comment_id,omitempty"`
}
