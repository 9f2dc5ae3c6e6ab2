package repository

import (
	"context"
	"strings"

	"github.com/yukikurage/anon-forum/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user, promoting the very first one to admin.
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			user.IsAdmin = true
		}
		return tx.Create(user).Error
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the number of registered users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// UpdateBio replaces a user's profile text
func (r *GormUserRepository) UpdateBio(ctx context.Context, userID uint64, bio string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("bio", bio).Error
}

// SetBanned sets the ban flag; a ban also closes the target's open reports
func (r *GormUserRepository) SetBanned(ctx context.Context, userID uint64, banned bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("is_banned", banned).Error; err != nil {
			return err
		}

		if !banned {
			return nil
		}

		return tx.Model(&models.Report{}).
			Where("reported_user_id = ? AND is_resolved = ?", userID, false).
			Update("is_resolved", true).Error
	})
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchActive finds non-banned users whose name contains query literally
func (r *GormUserRepository) SearchActive(ctx context.Context, query string, excludeID uint64, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE LOWER(?) ESCAPE '!'", "%"+likeEscaper.Replace(query)+"%").
		Where("id <> ? AND is_banned = ?", excludeID, false).
		Order("username").
		Limit(limit).
		Find(&users).Error
	return users, err
}
