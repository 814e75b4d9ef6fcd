package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/openplanner/gradplan-backend/internal/response"
	"github.com/openplanner/gradplan-backend/internal/service"
)

// CourseHandler exposes read-only catalog endpoints.
type CourseHandler struct {
	catalogService *service.CatalogService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(catalogService *service.CatalogService) *CourseHandler {
	return &CourseHandler{catalogService: catalogService}
}

// GetCourse godoc
// GET /api/v1/catalog/courses/:code
// Returns one catalog course by code, e.g. "CS 2201".
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.catalogService.GetCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// ListCourses godoc
// GET /api/v1/catalog/courses?subject=CS&page=1&per_page=25
// Returns a page of courses in one subject.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))

	courses, pagination, err := h.catalogService.ListBySubject(c.Request.Context(), subject, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"courses": courses}, pagination)
}

// ListTerms godoc
// GET /api/v1/catalog/terms
// Returns all academic terms.
func (h *CourseHandler) ListTerms(c *gin.Context) {
	terms, err := h.catalogService.ListTerms(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"terms": terms})
}
