package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/middleware"
	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/openplanner/gradplan-backend/internal/response"
	"github.com/openplanner/gradplan-backend/internal/service"
	"github.com/openplanner/gradplan-backend/internal/validator"
)

// PlanHandler handles plan endpoints for authenticated students.
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// failPlanError maps the shared plan-access failures to responses. Returns
// true when the error was handled.
func failPlanError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, repository.ErrPlanNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotPlanOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotPlanOwner)
	default:
		return false
	}
	return true
}

// List godoc
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	plans, err := h.planService.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

// Get godoc
// GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	plan, err := h.planService.GetOwnedPlan(c.Request.Context(), planID, claims.UserID)
	if err != nil {
		if !failPlanError(c, err) {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

// Create godoc
// POST /api/v1/plans
func (h *PlanHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreatePlanRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"plan": plan})
}

// Delete godoc
// DELETE /api/v1/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.planService.Delete(c.Request.Context(), planID, claims.UserID); err != nil {
		if !failPlanError(c, err) {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListCourses godoc
// GET /api/v1/plans/:id/courses
func (h *PlanHandler) ListCourses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	courses, err := h.planService.ListCourses(c.Request.Context(), planID, claims.UserID)
	if err != nil {
		if !failPlanError(c, err) {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// AddCourse godoc
// POST /api/v1/plans/:id/courses
func (h *PlanHandler) AddCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AddPlannedCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pc, err := h.planService.AddCourse(c.Request.Context(), planID, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCourse):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrUnknownCourse)
		default:
			if !failPlanError(c, err) {
				response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			}
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"planned_course": pc})
}

// UpdateCourse godoc
// PUT /api/v1/plans/:id/courses/:courseId
func (h *PlanHandler) UpdateCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	plannedCourseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdatePlannedCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pc, err := h.planService.UpdateCourse(c.Request.Context(), planID, claims.UserID, plannedCourseID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrPlannedCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		if !failPlanError(c, err) {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"planned_course": pc})
}

// RemoveCourse godoc
// DELETE /api/v1/plans/:id/courses/:courseId
func (h *PlanHandler) RemoveCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	plannedCourseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.planService.RemoveCourse(c.Request.Context(), planID, claims.UserID, plannedCourseID); err != nil {
		if errors.Is(err, repository.ErrPlannedCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		if !failPlanError(c, err) {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListPrograms godoc
// GET /api/v1/plans/:id/programs
func (h *PlanHandler) ListPrograms(c *gin.Context) {
	claims := middleware.GetClaims(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	programs, err := h.planService.ListPrograms(c.Request.Context(), planID, claims.UserID)
	if err != nil {
		if !failPlanError(c, err) {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"programs": programs})
}

// AttachProgram godoc
// POST /api/v1/plans/:id/programs
func (h *PlanHandler) AttachProgram(c *gin.Context) {
	claims := middleware.GetClaims(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AttachProgramRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	programID, err := uuid.Parse(req.ProgramID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	pp, err := h.planService.AttachProgram(c.Request.Context(), planID, claims.UserID, programID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramAttached):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		case errors.Is(err, repository.ErrProgramNotFound):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrNotFound)
		default:
			if !failPlanError(c, err) {
				response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			}
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"plan_program": pp})
}

// DetachProgram godoc
// DELETE /api/v1/plans/:id/programs/:programId
func (h *PlanHandler) DetachProgram(c *gin.Context) {
	claims := middleware.GetClaims(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	programID, err := uuid.Parse(c.Param("programId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.planService.DetachProgram(c.Request.Context(), planID, claims.UserID, programID); err != nil {
		if !failPlanError(c, err) {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// TriggerAudit godoc
// POST /api/v1/plans/:id/audit
// Queues an immediate background re-audit of the plan.
func (h *PlanHandler) TriggerAudit(c *gin.Context) {
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

	h.planService.EnqueueAudit(c.Request.Context(), planID)
	response.Success(c, http.StatusAccepted, gin.H{"queued": true})
}
