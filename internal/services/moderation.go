package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = apperrors.NotFoundError("user not found")
	ErrBanned           = apperrors.Authorization("banned users cannot perform this action")
	ErrNotOwner         = apperrors.Authorization("only the author or an administrator can do this")
	ErrAdminRequired    = apperrors.Authorization("administrator privileges required")
	ErrCannotBanSelf    = apperrors.Authorization("you cannot ban yourself")
	ErrCannotBanAdmin   = apperrors.Authorization("administrators cannot be banned")
	ErrCannotReportSelf = apperrors.Authorization("you cannot report yourself")
)

// EnsureActive rejects banned actors.
func EnsureActive(actor *models.User) error {
	if !actor.IsActive() {
		return ErrBanned
	}
	return nil
}

// CanMutate allows the owner or an admin, provided the actor is not banned.
func CanMutate(actor *models.User, ownerID uint64) error {
	if err := EnsureActive(actor); err != nil {
		return err
	}
	if !actor.IsAdmin && actor.ID != ownerID {
		return ErrNotOwner
	}
	return nil
}

// RequireAdmin allows administrators only.
func RequireAdmin(actor *models.User) error {
	if !actor.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

// CanBan allows an admin to ban anyone except themselves and other admins.
func CanBan(actor, target *models.User) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == target.ID {
		return ErrCannotBanSelf
	}
	if target.IsAdmin {
		return ErrCannotBanAdmin
	}
	return nil
}

// CanReport allows an active user to report someone other than themselves.
func CanReport(actor, target *models.User) error {
	if err := EnsureActive(actor); err != nil {
		return err
	}
	if actor.ID == target.ID {
		return ErrCannotReportSelf
	}
	return nil
}

// loadUser resolves a user ID, mapping a missing row to ErrUserNotFound.
func loadUser(ctx context.Context, users repository.UserRepository, id uint64) (*models.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
