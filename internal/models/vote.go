package models

import "time"

// VoteDirection is the signed value of a vote.
type VoteDirection int8

const (
	VoteUp   VoteDirection = 1
	VoteDown VoteDirection = -1
)

// Valid reports whether d is one of the two allowed directions.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// Vote is unique per (user, post).
type Vote struct {
	ID        uint64        `gorm:"primarykey" json:"id"`
	UserID    uint64        `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"user_id"`
	PostID    uint64        `gorm:"not null;uniqueIndex:idx_votes_user_post;index" json:"post_id"`
	Direction VoteDirection `gorm:"type:smallint;not null" json:"direction"`
	VotedAt   time.Time     `gorm:"not null" json:"voted_at"`
}
