package models

import "time"

// ConditionType names the activity counter an achievement rule inspects.
type ConditionType string

const (
	ConditionPostsMade                ConditionType = "posts_made"
	ConditionVotesCast                ConditionType = "votes_cast"
	ConditionTotalPostUpvotesReceived ConditionType = "total_post_upvotes_received"
	ConditionPostScoreReached         ConditionType = "post_score_reached"
)

// Achievement is seeded reference data.
type Achievement struct {
	ID            uint64        `gorm:"primarykey" json:"id"`
	Name          string        `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description   string        `gorm:"type:varchar(255);not null" json:"description"`
	Icon          string        `gorm:"type:varchar(16);not null" json:"icon"`
	ConditionType ConditionType `gorm:"type:varchar(50);not null" json:"condition_type"`
	Threshold     int64         `gorm:"not null" json:"threshold"`
}

// UserAchievement is at most one row per (user, achievement).
type UserAchievement struct {
	UserID        uint64    `gorm:"primarykey" json:"user_id"`
	AchievementID uint64    `gorm:"primarykey" json:"achievement_id"`
	AwardedAt     time.Time `gorm:"not null" json:"awarded_at"`

	// Relations
	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}
