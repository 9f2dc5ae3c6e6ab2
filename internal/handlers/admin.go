package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/anon-forum/internal/dto"
	apierrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/middleware"
	"github.com/yukikurage/anon-forum/internal/services"
	"github.com/yukikurage/anon-forum/internal/utils"
)

// AdminHandler serves the report queue.
type AdminHandler struct {
	reportService *services.ReportService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reportService *services.ReportService) *AdminHandler {
	return &AdminHandler{reportService: reportService}
}

// ListReports returns reports, open ones first
func (h *AdminHandler) ListReports(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	reports, total, err := h.reportService.ListReports(c.Request.Context(), userID, params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	items := make([]dto.ReportDTO, len(reports))
	for i, r := range reports {
		items[i] = dto.ToReportDTO(r)
	}

	c.JSON(http.StatusOK, dto.ReportListResponse{
		Reports: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ResolveReport closes a report without banning
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.reportService.ResolveReport(c.Request.Context(), userID, middleware.GetIDParam(c, "id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report resolved",
	})
}
