package models

import "time"

// Vote is the current vote of one user on one post or comment. Exactly one
// of PostID and CommentID is set, and each (voter, target) pair is unique.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	VoterID   int       `gorm:"not null;uniqueIndex:idx_votes_voter_post;uniqueIndex:idx_votes_voter_comment" json:"voter_id"`
	PostID    *int      `gorm:"uniqueIndex:idx_votes_voter_post;index:idx_votes_post;check:chk_votes_single_target,(post_id IS NULL) <> (comment_id IS NULL)" json:"post_id,omitempty"`
	CommentID *int      `gorm:"uniqueIndex:idx_votes_voter_comment;index:idx_votes_comment" json:"comment_id,omitempty"`
	Direction int       `gorm:"not null;check:chk_votes_direction,direction IN (-1, 1)" json:"direction"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
