package models

import "time"

type Post struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Body         string    `gorm:"type:text" json:"body"`
	Image        string    `json:"image"`
	AuthorID     int       `gorm:"not null;index" json:"author_id"`
	Author       User      `gorm:"foreignKey:AuthorID" json:"author"`
	Score        int       `gorm:"not null;default:0" json:"score"`
	CommentCount int       `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Post) CurrentScore() int { return p.Score }
func (p *Post) OwnerID() int      { return p.AuthorID }

type CreatePostRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
	Image string `json:"image"`
}
