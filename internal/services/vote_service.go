package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidVoteDirection = apperrors.Validation("vote must be like or dislike")
	ErrVoteConflict         = apperrors.ConflictError("vote changed concurrently, please retry")
)

// ParseVoteDirection maps the accepted vote tokens to a direction.
func ParseVoteDirection(token string) (models.VoteDirection, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "like", "up", "1", "+1":
		return models.VoteUp, nil
	case "dislike", "down", "-1":
		return models.VoteDown, nil
	default:
		return 0, ErrInvalidVoteDirection
	}
}

// decideVote is the toggle/switch/cast state machine. The returned pointer
// is the user's vote after the change, nil when the vote was withdrawn.
func decideVote(existing *models.Vote, direction models.VoteDirection) (repository.VoteChange, *models.VoteDirection) {
	switch {
	case existing == nil:
		return repository.VoteChange{Op: repository.VoteInsert, Direction: direction}, &direction
	case existing.Direction == direction:
		return repository.VoteChange{Op: repository.VoteDelete}, nil
	default:
		return repository.VoteChange{Op: repository.VoteUpdate, Direction: direction}, &direction
	}
}

// VoteResult is what a vote cast reports back.
type VoteResult struct {
	Score    int64
	UserVote *models.VoteDirection
	// Awarded are new achievements of the voter, AuthorAwarded of the post author.
	Awarded       []models.Achievement
	AuthorAwarded []models.Achievement
}

// VoteService maintains votes and post scores.
type VoteService struct {
	voteRepo  repository.VoteRepository
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	evaluator AchievementEvaluator
	log       *zap.Logger
	now       func() time.Time
}

// NewVoteService creates a new VoteService.
func NewVoteService(
	voteRepo repository.VoteRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	evaluator AchievementEvaluator,
	log *zap.Logger,
) *VoteService {
	return &VoteService{
		voteRepo:  voteRepo,
		postRepo:  postRepo,
		userRepo:  userRepo,
		evaluator: evaluator,
		log:       log,
		now:       time.Now,
	}
}

// CastVote applies a vote by userID on postID. Voting the same direction
// twice withdraws the vote, voting the other direction switches it.
func (s *VoteService) CastVote(ctx context.Context, userID, postID uint64, direction models.VoteDirection) (*VoteResult, error) {
	if !direction.Valid() {
		return nil, ErrInvalidVoteDirection
	}

	voter, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	if err := EnsureActive(voter); err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, apperrors.Persistence("failed to find post", err)
	}

	var current *models.VoteDirection
	apply := func() (int64, error) {
		return s.voteRepo.Apply(ctx, userID, postID, s.now(), func(existing *models.Vote) repository.VoteChange {
			change, after := decideVote(existing, direction)
			current = after
			return change
		})
	}

	score, err := apply()
	if errors.Is(err, repository.ErrVoteConflict) {
		// The competing insert has committed, so a second read sees it.
		score, err = apply()
	}
	if err != nil {
		if errors.Is(err, repository.ErrVoteConflict) {
			return nil, ErrVoteConflict
		}
		return nil, apperrors.Persistence("failed to apply vote", err)
	}

	result := &VoteResult{Score: score, UserVote: current}
	result.Awarded = evaluateQuietly(ctx, s.evaluator, s.log, userID, Event{Type: EventVoteCast})
	result.AuthorAwarded = evaluateQuietly(ctx, s.evaluator, s.log, post.AuthorID, Event{
		Type:         EventVoteReceived,
		PostID:       post.ID,
		PostAuthorID: post.AuthorID,
	})
	return result, nil
}
