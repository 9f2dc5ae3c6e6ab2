package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Profile is a user's public page.
type Profile struct {
	User         *models.User
	PostCount    int64
	Achievements []models.UserAchievement
}

// UserService handles profiles and account moderation.
type UserService struct {
	userRepo        repository.UserRepository
	postRepo        repository.PostRepository
	achievementRepo repository.AchievementRepository
	log             *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	achievementRepo repository.AchievementRepository,
	log *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:        userRepo,
		postRepo:        postRepo,
		achievementRepo: achievementRepo,
		log:             log,
	}
}

// GetProfile looks a user up by name and gathers their public stats.
func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperrors.Persistence("failed to find user", err)
	}

	count, err := s.postRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Persistence("failed to count posts", err)
	}
	achievements, err := s.achievementRepo.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Persistence("failed to list achievements", err)
	}

	return &Profile{User: user, PostCount: count, Achievements: achievements}, nil
}

// UpdateBio replaces the actor's own profile text.
func (s *UserService) UpdateBio(ctx context.Context, actorID uint64, bio string) (*models.User, error) {
	actor, err := loadUser(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if err := EnsureActive(actor); err != nil {
		return nil, err
	}

	bio = strings.TrimSpace(bio)
	if err := s.userRepo.UpdateBio(ctx, actor.ID, bio); err != nil {
		return nil, apperrors.Persistence("failed to update bio", err)
	}
	actor.Bio = bio
	return actor, nil
}

// Ban blocks a user from mutating content and resolves reports against them.
func (s *UserService) Ban(ctx context.Context, actorID, targetID uint64) (*models.User, error) {
	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if err := CanBan(actor, target); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetBanned(ctx, target.ID, true); err != nil {
		return nil, apperrors.Persistence("failed to ban user", err)
	}
	target.IsBanned = true

	s.log.Info("user banned",
		zap.Uint64("user_id", target.ID),
		zap.Uint64("admin_id", actor.ID),
	)
	return target, nil
}

// Unban lifts a ban. Administrators only.
func (s *UserService) Unban(ctx context.Context, actorID, targetID uint64) (*models.User, error) {
	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetBanned(ctx, target.ID, false); err != nil {
		return nil, apperrors.Persistence("failed to unban user", err)
	}
	target.IsBanned = false

	s.log.Info("user unbanned",
		zap.Uint64("user_id", target.ID),
		zap.Uint64("admin_id", actor.ID),
	)
	return target, nil
}

func (s *UserService) loadPair(ctx context.Context, actorID, targetID uint64) (*models.User, *models.User, error) {
	actor, err := loadUser(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, nil, err
	}
	target, err := loadUser(ctx, s.userRepo, targetID)
	if err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}
