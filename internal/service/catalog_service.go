package service

import (
	"context"
	"strings"

	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/openplanner/gradplan-backend/internal/response"
)

// CatalogService exposes read access to the course catalog and term calendar.
type CatalogService struct {
	courseRepo *repository.CourseRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(courseRepo *repository.CourseRepository) *CatalogService {
	return &CatalogService{courseRepo: courseRepo}
}

// GetCourse retrieves a single course by its catalog code, e.g. "CS 2201".
func (s *CatalogService) GetCourse(ctx context.Context, code string) (*model.Course, error) {
	return s.courseRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// ListBySubject returns a page of courses in one subject.
func (s *CatalogService) ListBySubject(ctx context.Context, subject string, page, perPage int) ([]model.Course, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 25
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	courses, total, err := s.courseRepo.ListBySubject(ctx, strings.ToUpper(strings.TrimSpace(subject)), limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if courses == nil {
		courses = []model.Course{}
	}

	return courses, response.NewPagination(page, perPage, total), nil
}

// ListTerms returns all academic terms ordered by start date.
func (s *CatalogService) ListTerms(ctx context.Context) ([]model.Term, error) {
	terms, err := s.courseRepo.ListTerms(ctx)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		terms = []model.Term{}
	}
	return terms, nil
}
