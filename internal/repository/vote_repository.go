package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/anon-forum/internal/models"
	"gorm.io/gorm"
)

// ErrVoteConflict is returned when another request inserted the same (user, post) vote first.
var ErrVoteConflict = errors.New("vote repository: concurrent vote on the same post")

// GormVoteRepository is a GORM implementation of VoteRepository
type GormVoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &GormVoteRepository{db: db}
}

// Apply runs read-decide-write for one (user, post) pair in a transaction
// and returns the post score as of that transaction
func (r *GormVoteRepository) Apply(ctx context.Context, userID, postID uint64, at time.Time, decide func(existing *models.Vote) VoteChange) (int64, error) {
	var score int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing *models.Vote

		var vote models.Vote
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&vote).Error
		switch {
		case err == nil:
			existing = &vote
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		change := decide(existing)

		switch change.Op {
		case VoteInsert:
			err = tx.Create(&models.Vote{
				UserID:    userID,
				PostID:    postID,
				Direction: change.Direction,
				VotedAt:   at,
			}).Error
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrVoteConflict
			}
		case VoteDelete:
			err = tx.Delete(&models.Vote{}, existing.ID).Error
		case VoteUpdate:
			err = tx.Model(&models.Vote{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"direction": change.Direction,
					"voted_at":  at,
				}).Error
		default:
			err = nil
		}
		if err != nil {
			return err
		}

		return scoreOf(tx, postID, &score)
	})
	if err != nil {
		return 0, err
	}
	return score, nil
}

func scoreOf(db *gorm.DB, postID uint64, score *int64) error {
	return db.Model(&models.Vote{}).
		Select("COALESCE(SUM(direction), 0)").
		Where("post_id = ?", postID).
		Scan(score).Error
}

// Score returns the signed vote sum of a post
func (r *GormVoteRepository) Score(ctx context.Context, postID uint64) (int64, error) {
	var score int64
	err := scoreOf(r.db.WithContext(ctx), postID, &score)
	return score, err
}

// Scores returns signed vote sums keyed by post ID
func (r *GormVoteRepository) Scores(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	scores := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return scores, nil
	}

	var rows []struct {
		PostID uint64
		Score  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("post_id, SUM(direction) AS score").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		scores[row.PostID] = row.Score
	}
	return scores, nil
}

// DirectionsByUser returns the user's vote per post
func (r *GormVoteRepository) DirectionsByUser(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]models.VoteDirection, error) {
	directions := make(map[uint64]models.VoteDirection)
	if len(postIDs) == 0 {
		return directions, nil
	}

	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}

	for _, v := range votes {
		directions[v.PostID] = v.Direction
	}
	return directions, nil
}

// CountByUser counts votes cast by a user
func (r *GormVoteRepository) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountUpvotesReceived counts +1 votes on posts written by authorID
func (r *GormVoteRepository) CountUpvotesReceived(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Joins("JOIN posts ON posts.id = votes.post_id").
		Where("posts.author_id = ? AND votes.direction = ?", authorID, models.VoteUp).
		Count(&count).Error
	return count, err
}
