package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/audit"
	"github.com/openplanner/gradplan-backend/internal/middleware"
	"github.com/openplanner/gradplan-backend/internal/response"
	"github.com/openplanner/gradplan-backend/internal/service"
)

// ProgressHandler serves degree-progress summaries for a plan.
type ProgressHandler struct {
	planService     *service.PlanService
	progressService *service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(planService *service.PlanService, progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		planService:     planService,
		progressService: progressService,
	}
}

// GetPlanProgress godoc
// GET /api/v1/plans/:id/progress
// Returns the cached audit summary for a plan, computing it on a cold cache.
func (h *ProgressHandler) GetPlanProgress(c *gin.Context) {
	claims := middleware.GetClaims(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, err := h.planService.GetOwnedPlan(c.Request.Context(), planID, claims.UserID); err != nil {
		if !failPlanError(c, err) {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	summary, err := h.progressService.GetPlanProgress(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, audit.ErrPlanNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": summary})
}
