package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/audit"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/openplanner/gradplan-backend/internal/response"
	"github.com/openplanner/gradplan-backend/internal/service"
)

// AdvisorHandler serves read-only plan views for advisors. Advisors can
// inspect any student's plans but never mutate them.
type AdvisorHandler struct {
	planService     *service.PlanService
	progressService *service.ProgressService
}

// NewAdvisorHandler creates a new AdvisorHandler.
func NewAdvisorHandler(planService *service.PlanService, progressService *service.ProgressService) *AdvisorHandler {
	return &AdvisorHandler{
		planService:     planService,
		progressService: progressService,
	}
}

// ListStudentPlans godoc
// GET /api/v1/advisor/students/:id/plans
func (h *AdvisorHandler) ListStudentPlans(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	plans, err := h.planService.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

// GetPlan godoc
// GET /api/v1/advisor/plans/:id
func (h *AdvisorHandler) GetPlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

// GetPlanProgress godoc
// GET /api/v1/advisor/plans/:id/progress
func (h *AdvisorHandler) GetPlanProgress(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, err := h.planService.GetPlan(c.Request.Context(), planID); err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
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
