package dto

import (
	"time"

	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// CurrentUserDTO is the session user's own account
type CurrentUserDTO struct {
	UserDTO
	Bio      string `json:"bio"`
	IsBanned bool   `json:"is_banned"`
}

// AchievementDTO represents an achievement in API responses
type AchievementDTO struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	AwardedAt   *time.Time `json:"awarded_at,omitempty"`
}

// ProfileDTO is a user's public page
type ProfileDTO struct {
	UserDTO
	Bio          string           `json:"bio"`
	IsBanned     bool             `json:"is_banned"`
	JoinedAt     time.Time        `json:"joined_at"`
	PostCount    int64            `json:"post_count"`
	Achievements []AchievementDTO `json:"achievements"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}
}

// ToCurrentUserDTO converts the session user
func ToCurrentUserDTO(user models.User) CurrentUserDTO {
	return CurrentUserDTO{
		UserDTO:  ToUserDTO(user),
		Bio:      user.Bio,
		IsBanned: user.IsBanned,
	}
}

// ToAchievementDTOs converts newly awarded achievements
func ToAchievementDTOs(list []models.Achievement) []AchievementDTO {
	dtos := make([]AchievementDTO, len(list))
	for i, a := range list {
		dtos[i] = AchievementDTO{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
		}
	}
	return dtos
}

// ToAwardedAchievementDTOs converts a user's held achievements
func ToAwardedAchievementDTOs(list []models.UserAchievement) []AchievementDTO {
	dtos := make([]AchievementDTO, len(list))
	for i, ua := range list {
		awardedAt := ua.AwardedAt
		dtos[i] = AchievementDTO{
			ID:          ua.Achievement.ID,
			Name:        ua.Achievement.Name,
			Description: ua.Achievement.Description,
			Icon:        ua.Achievement.Icon,
			AwardedAt:   &awardedAt,
		}
	}
	return dtos
}

// ToProfileDTO converts a profile
func ToProfileDTO(profile *services.Profile) ProfileDTO {
	return ProfileDTO{
		UserDTO:      ToUserDTO(*profile.User),
		Bio:          profile.User.Bio,
		IsBanned:     profile.User.IsBanned,
		JoinedAt:     profile.User.CreatedAt,
		PostCount:    profile.PostCount,
		Achievements: ToAwardedAchievementDTOs(profile.Achievements),
	}
}
