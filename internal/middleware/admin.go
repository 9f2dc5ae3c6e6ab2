package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/repository"
	"gorm.io/gorm"
)

// RequireAdmin checks that the session user is an administrator.
// Must run after RequireAuth.
func RequireAdmin(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.Respond(c, apierrors.Persistence("failed to load user", err))
			}
			c.Abort()
			return
		}

		if !user.IsAdmin {
			apierrors.Forbidden(c, "Administrator privileges required")
			c.Abort()
			return
		}

		c.Next()
	}
}
