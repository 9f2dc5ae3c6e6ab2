package repository

import (
	"context"
	"time"

	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user. The first user ever stored is promoted to admin.
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// Count returns the number of registered users
	Count(ctx context.Context) (int64, error)

	// UpdateBio replaces a user's profile text
	UpdateBio(ctx context.Context, userID uint64, bio string) error

	// SetBanned sets the ban flag. Banning also resolves the user's open reports.
	SetBanned(ctx context.Context, userID uint64, banned bool) error

	// SearchActive finds non-banned users whose name contains query
	SearchActive(ctx context.Context, query string, excludeID uint64, limit int) ([]models.User, error)
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	// CreateWithTags stores a post and attaches the named tags, creating missing ones
	CreateWithTags(ctx context.Context, post *models.Post, tagNames []string) error

	// FindByID finds a post by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Post, error)

	// UpdateWithTags saves edited content and replaces the tag set.
	// It returns the IDs of the tags the post carried before the edit.
	UpdateWithTags(ctx context.Context, post *models.Post, tagNames []string) ([]uint64, error)

	// Delete removes a post with its replies, votes and tag links.
	// It returns the IDs of the tags the post carried.
	Delete(ctx context.Context, id uint64) ([]uint64, error)

	// SetPinned updates the pinned flag
	SetPinned(ctx context.Context, id uint64, pinned bool) error

	// ListFeed returns every post, optionally restricted to one tag, with
	// author, tags and replies loaded
	ListFeed(ctx context.Context, tagID *uint64) ([]models.Post, error)

	// ListSince returns pinned posts plus non-pinned posts with id > lastSeenID
	ListSince(ctx context.Context, lastSeenID uint64) ([]models.Post, error)

	// CountByAuthor counts posts written by a user
	CountByAuthor(ctx context.Context, authorID uint64) (int64, error)
}

// ReplyRepository defines the interface for reply data access
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	FindByID(ctx context.Context, id uint64) (*models.Reply, error)
	Delete(ctx context.Context, id uint64) error
}

// VoteOp is the mutation a vote cast resolves to
type VoteOp int

const (
	VoteInsert VoteOp = iota
	VoteDelete
	VoteUpdate
)

// VoteChange describes how to mutate the (user, post) vote row
type VoteChange struct {
	Op        VoteOp
	Direction models.VoteDirection
}

// VoteRepository defines the interface for vote data access
type VoteRepository interface {
	// Apply reads the current vote for (userID, postID), asks decide what to do,
	// and performs it in one transaction, returning the post score read inside
	// it. A concurrent insert of the same pair surfaces as ErrVoteConflict.
	Apply(ctx context.Context, userID, postID uint64, at time.Time, decide func(existing *models.Vote) VoteChange) (int64, error)

	// Score returns count(+1) - count(-1) for a post
	Score(ctx context.Context, postID uint64) (int64, error)

	// Scores returns scores for many posts; posts without votes are absent
	Scores(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)

	// DirectionsByUser returns the user's current vote for each voted post
	DirectionsByUser(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]models.VoteDirection, error)

	// CountByUser counts votes cast by a user
	CountByUser(ctx context.Context, userID uint64) (int64, error)

	// CountUpvotesReceived counts +1 votes across all posts written by authorID
	CountUpvotesReceived(ctx context.Context, authorID uint64) (int64, error)
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	FindByName(ctx context.Context, name string) (*models.Tag, error)

	// ListAll returns every tag ordered by name
	ListAll(ctx context.Context) ([]models.Tag, error)

	// DeleteOrphans deletes the given tags that no post references any more
	DeleteOrphans(ctx context.Context, tagIDs []uint64) (int64, error)
}

// AchievementRepository defines the interface for achievement data access
type AchievementRepository interface {
	// ListCatalog returns all achievement rules ordered by ID
	ListCatalog(ctx context.Context) ([]models.Achievement, error)

	// AwardedIDs returns the achievement IDs the user already holds
	AwardedIDs(ctx context.Context, userID uint64) (map[uint64]struct{}, error)

	// Award stores all awards in one transaction
	Award(ctx context.Context, userID uint64, achievementIDs []uint64, at time.Time) error

	// ListForUser returns the user's awards in award order
	ListForUser(ctx context.Context, userID uint64) ([]models.UserAchievement, error)

	// Seed inserts catalog entries missing by name and returns how many were added
	Seed(ctx context.Context, catalog []models.Achievement) (int, error)
}

// Conversation summarises a direct-message thread from one participant's view
type Conversation struct {
	UserID        uint64    `json:"user_id"`
	Username      string    `json:"username"`
	UnreadCount   int64     `json:"unread_count"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// MessageRepository defines the interface for direct message data access
type MessageRepository interface {
	Create(ctx context.Context, msg *models.DirectMessage) error

	// Conversations lists everyone userID exchanged messages with, newest activity first
	Conversations(ctx context.Context, userID uint64) ([]Conversation, error)

	// Thread returns messages between a and b in ascending time, optionally after since
	Thread(ctx context.Context, a, b uint64, since *time.Time) ([]models.DirectMessage, error)

	// MarkRead marks unread messages from sender to receiver as read
	MarkRead(ctx context.Context, senderID, receiverID uint64) (int64, error)
}

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id uint64) (*models.Report, error)

	// FindOpen finds an unresolved report from reporter about reported
	FindOpen(ctx context.Context, reporterID, reportedID uint64) (*models.Report, error)

	// List returns reports, unresolved first then newest first
	List(ctx context.Context, params utils.PaginationParams) ([]models.Report, int64, error)

	Resolve(ctx context.Context, id uint64) error
}
