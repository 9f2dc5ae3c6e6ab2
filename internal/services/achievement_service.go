package services

import (
	"context"
	"time"

	apperrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
	"go.uber.org/zap"
)

// DefaultCatalog is the achievement set seeded at startup.
var DefaultCatalog = []models.Achievement{
	{Name: "Первопроходец", Description: "Написать первый пост", Icon: "🚀", ConditionType: models.ConditionPostsMade, Threshold: 1},
	{Name: "Болтун", Description: "Написать 5 постов", Icon: "💬", ConditionType: models.ConditionPostsMade, Threshold: 5},
	{Name: "Оратор", Description: "Написать 15 постов", Icon: "🗣️", ConditionType: models.ConditionPostsMade, Threshold: 15},
	{Name: "Бог", Description: "Написать 100 постов", Icon: "👑", ConditionType: models.ConditionPostsMade, Threshold: 100},
	{Name: "Голосующий", Description: "Проголосовать 10 раз", Icon: "🗳️", ConditionType: models.ConditionVotesCast, Threshold: 10},
	{Name: "Популярный", Description: "Получить 10 лайков на свои посты", Icon: "🌟", ConditionType: models.ConditionTotalPostUpvotesReceived, Threshold: 10},
	{Name: "Мудрец", Description: "Набрать рейтинг 5 на одном посте", Icon: "💡", ConditionType: models.ConditionPostScoreReached, Threshold: 5},
}

// storeActivity reads achievement counters from the post and vote stores.
type storeActivity struct {
	posts repository.PostRepository
	votes repository.VoteRepository
}

func (a storeActivity) PostCount(ctx context.Context, userID uint64) (int64, error) {
	return a.posts.CountByAuthor(ctx, userID)
}

func (a storeActivity) VoteCount(ctx context.Context, userID uint64) (int64, error) {
	return a.votes.CountByUser(ctx, userID)
}

func (a storeActivity) UpvotesReceived(ctx context.Context, userID uint64) (int64, error) {
	return a.votes.CountUpvotesReceived(ctx, userID)
}

func (a storeActivity) PostScore(ctx context.Context, postID uint64) (int64, error) {
	return a.votes.Score(ctx, postID)
}

// AchievementService evaluates achievement rules and records awards.
type AchievementService struct {
	achievementRepo repository.AchievementRepository
	activity        Activity
	log             *zap.Logger
	now             func() time.Time
}

// NewAchievementService creates a new AchievementService.
func NewAchievementService(
	achievementRepo repository.AchievementRepository,
	postRepo repository.PostRepository,
	voteRepo repository.VoteRepository,
	log *zap.Logger,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		activity:        storeActivity{posts: postRepo, votes: voteRepo},
		log:             log,
		now:             time.Now,
	}
}

// Evaluate checks every rule the user does not yet hold and awards the ones
// now satisfied. Awards from one call are stored together or not at all.
func (s *AchievementService) Evaluate(ctx context.Context, userID uint64, event Event) ([]models.Achievement, error) {
	held, err := s.achievementRepo.AwardedIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence("failed to load awarded achievements", err)
	}
	catalog, err := s.achievementRepo.ListCatalog(ctx)
	if err != nil {
		return nil, apperrors.Persistence("failed to load achievement catalog", err)
	}

	var awarded []models.Achievement
	for _, achievement := range catalog {
		if _, ok := held[achievement.ID]; ok {
			continue
		}
		condition, err := ConditionFor(achievement)
		if err != nil {
			s.log.Warn("skipping achievement with unknown condition",
				zap.Uint64("achievement_id", achievement.ID),
				zap.String("condition_type", string(achievement.ConditionType)),
			)
			continue
		}
		ok, err := condition.Satisfied(ctx, s.activity, userID, event)
		if err != nil {
			return nil, apperrors.Persistence("failed to evaluate achievement", err)
		}
		if !ok {
			continue
		}
		held[achievement.ID] = struct{}{}
		awarded = append(awarded, achievement)
	}

	if len(awarded) == 0 {
		return nil, nil
	}

	ids := make([]uint64, len(awarded))
	for i, a := range awarded {
		ids[i] = a.ID
	}
	if err := s.achievementRepo.Award(ctx, userID, ids, s.now()); err != nil {
		return nil, apperrors.Persistence("failed to award achievements", err)
	}

	for _, a := range awarded {
		s.log.Info("achievement awarded",
			zap.Uint64("user_id", userID),
			zap.String("achievement", a.Name),
			zap.String("event", string(event.Type)),
		)
	}
	return awarded, nil
}

// ListForUser returns the user's awards in award order.
func (s *AchievementService) ListForUser(ctx context.Context, userID uint64) ([]models.UserAchievement, error) {
	list, err := s.achievementRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence("failed to list achievements", err)
	}
	return list, nil
}

// SeedCatalog inserts DefaultCatalog entries that are not present yet.
func (s *AchievementService) SeedCatalog(ctx context.Context) (int, error) {
	added, err := s.achievementRepo.Seed(ctx, DefaultCatalog)
	if err != nil {
		return 0, apperrors.Persistence("failed to seed achievements", err)
	}
	if added > 0 {
		s.log.Info("achievement catalog seeded", zap.Int("added", added))
	}
	return added, nil
}
