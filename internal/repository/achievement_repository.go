package repository

import (
	"context"
	"time"

	"github.com/yukikurage/anon-forum/internal/models"
	"gorm.io/gorm"
)

// GormAchievementRepository is a GORM implementation of AchievementRepository
type GormAchievementRepository struct {
	db *gorm.DB
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &GormAchievementRepository{db: db}
}

// ListCatalog returns all achievement rules ordered by ID
func (r *GormAchievementRepository) ListCatalog(ctx context.Context) ([]models.Achievement, error) {
	var catalog []models.Achievement
	err := r.db.WithContext(ctx).Order("id").Find(&catalog).Error
	return catalog, err
}

// AwardedIDs returns the set of achievement IDs the user holds
func (r *GormAchievementRepository) AwardedIDs(ctx context.Context, userID uint64) (map[uint64]struct{}, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error; err != nil {
		return nil, err
	}

	awarded := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		awarded[id] = struct{}{}
	}
	return awarded, nil
}

// Award stores every award or none of them
func (r *GormAchievementRepository) Award(ctx context.Context, userID uint64, achievementIDs []uint64, at time.Time) error {
	if len(achievementIDs) == 0 {
		return nil
	}

	rows := make([]models.UserAchievement, len(achievementIDs))
	for i, id := range achievementIDs {
		rows[i] = models.UserAchievement{
			UserID:        userID,
			AchievementID: id,
			AwardedAt:     at,
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Achievement").Create(&rows).Error
	})
}

// ListForUser returns the user's awards with their achievement, oldest first
func (r *GormAchievementRepository) ListForUser(ctx context.Context, userID uint64) ([]models.UserAchievement, error) {
	var awards []models.UserAchievement
	err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("awarded_at ASC").
		Order("achievement_id ASC").
		Find(&awards).Error
	return awards, err
}

// Seed inserts catalog entries that are missing by name
func (r *GormAchievementRepository) Seed(ctx context.Context, catalog []models.Achievement) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range catalog {
			var count int64
			if err := tx.Model(&models.Achievement{}).Where("name = ?", entry.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			entry := entry
			entry.ID = 0
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}
