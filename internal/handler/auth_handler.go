package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openplanner/gradplan-backend/internal/middleware"
	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/openplanner/gradplan-backend/internal/response"
	"github.com/openplanner/gradplan-backend/internal/service"
	"github.com/openplanner/gradplan-backend/internal/validator"
)

// AuthHandler handles student and advisor authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	studentRepo *repository.StudentRepository
	advisorRepo *repository.AdvisorRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	studentRepo *repository.StudentRepository,
	advisorRepo *repository.AdvisorRepository,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		studentRepo: studentRepo,
		advisorRepo: advisorRepo,
	}
}

// StudentLogin godoc
// POST /api/v1/auth/student/login
// Validates email + password, returns JWT.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(student.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), student.ID, service.TokenTypeStudent)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"student": gin.H{
			"id":    student.ID,
			"email": student.Email,
			"name":  student.Name,
		},
	})
}

// AdvisorLogin godoc
// POST /api/v1/auth/advisor/login
// Validates email + password, returns JWT.
func (h *AuthHandler) AdvisorLogin(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	advisor, err := h.advisorRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(advisor.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), advisor.ID, service.TokenTypeAdvisor)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"advisor": gin.H{
			"id":    advisor.ID,
			"email": advisor.Email,
			"name":  advisor.Name,
		},
	})
}

// GetStudentProfile godoc
// GET /api/v1/auth/student/me
// Returns the profile of the currently authenticated student.
func (h *AuthHandler) GetStudentProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	student, err := h.studentRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"student": gin.H{
			"id":    student.ID,
			"email": student.Email,
			"name":  student.Name,
		},
	})
}

// StudentLogout godoc
// POST /api/v1/auth/student/logout
// Invalidates the student's current session token.
func (h *AuthHandler) StudentLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.UserID, service.TokenTypeStudent); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// AdvisorLogout godoc
// POST /api/v1/auth/advisor/logout
// Invalidates the advisor's current session token.
func (h *AuthHandler) AdvisorLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.UserID, service.TokenTypeAdvisor); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
