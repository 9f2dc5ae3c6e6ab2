package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/anon-forum/internal/dto"
	apierrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/middleware"
	"github.com/yukikurage/anon-forum/internal/services"
)

// UserHandler serves profiles, reports and bans.
type UserHandler struct {
	userService   *services.UserService
	reportService *services.ReportService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, reportService *services.ReportService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		reportService: reportService,
	}
}

// GetProfile returns a user's public profile by username.
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(profile))
}

// ReportUser files a report about another user.
func (h *UserHandler) ReportUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type ReportRequest struct {
		Reason string `json:"reason"`
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	report, err := h.reportService.ReportUser(c.Request.Context(), userID, middleware.GetIDParam(c, "id"), req.Reason)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      report.ID,
		"message": "Report submitted",
	})
}

// BanUser bans a user. Administrators only.
func (h *UserHandler) BanUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.userService.Ban(c.Request.Context(), userID, middleware.GetIDParam(c, "id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrentUserDTO(*user))
}

// UnbanUser lifts a ban. Administrators only.
func (h *UserHandler) UnbanUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.userService.Unban(c.Request.Context(), userID, middleware.GetIDParam(c, "id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrentUserDTO(*user))
}
