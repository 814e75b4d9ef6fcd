package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/openplanner/gradplan-backend/internal/response"
	"github.com/openplanner/gradplan-backend/internal/service"
	"github.com/openplanner/gradplan-backend/internal/validator"
)

// ProgramHandler handles degree program management. Reads are open to any
// authenticated user; writes are advisor-only (enforced by the router).
type ProgramHandler struct {
	programService *service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// List godoc
// GET /api/v1/programs
func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.programService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"programs": programs})
}

// Get godoc
// GET /api/v1/programs/:id
func (h *ProgramHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	program, err := h.programService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"program": program})
}

// Create godoc
// POST /api/v1/programs
// Validates the requirement tree before storing.
func (h *ProgramHandler) Create(c *gin.Context) {
	var req model.CreateProgramRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	program, err := h.programService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequirements):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidRequirements)
		case errors.Is(err, service.ErrDuplicateProgram):
			response.Fail(c, http.StatusConflict, response.ErrDuplicateProgram)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"program": program})
}

// Update godoc
// PUT /api/v1/programs/:id
func (h *ProgramHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateProgramRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	program, err := h.programService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequirements):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidRequirements)
		case errors.Is(err, repository.ErrProgramNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"program": program})
}

// Delete godoc
// DELETE /api/v1/programs/:id
func (h *ProgramHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.programService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusConflict, response.ErrProgramAttached)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
