package services

import (
	"context"

	"github.com/yukikurage/anon-forum/internal/models"
	"go.uber.org/zap"
)

// EventType tags the activity that triggered an achievement check.
type EventType string

const (
	EventPostCreated  EventType = "post-created"
	EventPostDeleted  EventType = "post-deleted"
	EventVoteCast     EventType = "vote-cast"
	EventVoteReceived EventType = "vote-received"
)

// Event is passed from the mutating services to the achievement evaluator.
// PostID and PostAuthorID are set for vote-received.
type Event struct {
	Type         EventType
	PostID       uint64
	PostAuthorID uint64
}

// AchievementEvaluator awards achievements in response to events.
type AchievementEvaluator interface {
	Evaluate(ctx context.Context, userID uint64, event Event) ([]models.Achievement, error)
}

// evaluateQuietly runs the evaluator after the triggering mutation has
// committed. Failures are logged and never reach the caller.
func evaluateQuietly(ctx context.Context, evaluator AchievementEvaluator, log *zap.Logger, userID uint64, event Event) []models.Achievement {
	if evaluator == nil {
		return nil
	}
	awarded, err := evaluator.Evaluate(ctx, userID, event)
	if err != nil {
		log.Error("achievement evaluation failed",
			zap.Uint64("user_id", userID),
			zap.String("event", string(event.Type)),
			zap.Error(err),
		)
		return nil
	}
	return awarded
}
