package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/anon-forum/internal/models"
)

// Activity exposes the counters achievement conditions are checked against.
type Activity interface {
	PostCount(ctx context.Context, userID uint64) (int64, error)
	VoteCount(ctx context.Context, userID uint64) (int64, error)
	UpvotesReceived(ctx context.Context, userID uint64) (int64, error)
	PostScore(ctx context.Context, postID uint64) (int64, error)
}

// Condition is one achievement rule variant.
type Condition interface {
	Type() models.ConditionType
	Satisfied(ctx context.Context, activity Activity, userID uint64, event Event) (bool, error)
}

// PostsMade holds when the user has written at least Threshold posts.
type PostsMade struct{ Threshold int64 }

func (c PostsMade) Type() models.ConditionType { return models.ConditionPostsMade }

func (c PostsMade) Satisfied(ctx context.Context, activity Activity, userID uint64, _ Event) (bool, error) {
	n, err := activity.PostCount(ctx, userID)
	return n >= c.Threshold, err
}

// VotesCast holds when the user has at least Threshold live votes.
type VotesCast struct{ Threshold int64 }

func (c VotesCast) Type() models.ConditionType { return models.ConditionVotesCast }

func (c VotesCast) Satisfied(ctx context.Context, activity Activity, userID uint64, _ Event) (bool, error) {
	n, err := activity.VoteCount(ctx, userID)
	return n >= c.Threshold, err
}

// UpvotesReceived holds when the user's posts carry at least Threshold +1
// votes in total. Only checked when the user is the author of a voted post.
type UpvotesReceived struct{ Threshold int64 }

func (c UpvotesReceived) Type() models.ConditionType {
	return models.ConditionTotalPostUpvotesReceived
}

func (c UpvotesReceived) Satisfied(ctx context.Context, activity Activity, userID uint64, event Event) (bool, error) {
	if !receivedVote(userID, event) {
		return false, nil
	}
	n, err := activity.UpvotesReceived(ctx, userID)
	return n >= c.Threshold, err
}

// PostScoreReached holds when the post named by the event has a score of at
// least Threshold. Only checked when the user is that post's author.
type PostScoreReached struct{ Threshold int64 }

func (c PostScoreReached) Type() models.ConditionType { return models.ConditionPostScoreReached }

func (c PostScoreReached) Satisfied(ctx context.Context, activity Activity, userID uint64, event Event) (bool, error) {
	if !receivedVote(userID, event) || event.PostID == 0 {
		return false, nil
	}
	score, err := activity.PostScore(ctx, event.PostID)
	return score >= c.Threshold, err
}

func receivedVote(userID uint64, event Event) bool {
	return event.Type == EventVoteReceived && event.PostAuthorID == userID
}

// ConditionFor builds the rule variant stored on an achievement row.
func ConditionFor(a models.Achievement) (Condition, error) {
	switch a.ConditionType {
	case models.ConditionPostsMade:
		return PostsMade{Threshold: a.Threshold}, nil
	case models.ConditionVotesCast:
		return VotesCast{Threshold: a.Threshold}, nil
	case models.ConditionTotalPostUpvotesReceived:
		return UpvotesReceived{Threshold: a.Threshold}, nil
	case models.ConditionPostScoreReached:
		return PostScoreReached{Threshold: a.Threshold}, nil
	default:
		return nil, fmt.Errorf("unknown achievement condition %q", a.ConditionType)
	}
}
