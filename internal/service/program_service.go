package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/audit"
	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrInvalidRequirements = errors.New("invalid requirement tree")
	ErrDuplicateProgram    = errors.New("a program with this slug and catalog year already exists")
)

// ProgramService handles degree program management and requirement tree
// validation. Trees are validated structurally at save time so the audit
// engine never sees a malformed rule or filter.
type ProgramService struct {
	programRepo *repository.ProgramRepository
	log         zerolog.Logger
}

// NewProgramService creates a new ProgramService.
func NewProgramService(programRepo *repository.ProgramRepository, log zerolog.Logger) *ProgramService {
	return &ProgramService{
		programRepo: programRepo,
		log:         log.With().Str("component", "program_service").Logger(),
	}
}

// GetByID retrieves a program with its full requirement tree.
func (s *ProgramService) GetByID(ctx context.Context, id uuid.UUID) (*model.Program, error) {
	return s.programRepo.GetByID(ctx, id)
}

// List returns all programs.
func (s *ProgramService) List(ctx context.Context) ([]model.Program, error) {
	programs, err := s.programRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if programs == nil {
		programs = []model.Program{}
	}
	return programs, nil
}

// Create validates and stores a new program.
func (s *ProgramService) Create(ctx context.Context, req *model.CreateProgramRequest) (*model.Program, error) {
	if err := ValidateRequirementTree(&req.Requirements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequirements, err)
	}

	program := &model.Program{
		Slug:         req.Slug,
		Name:         req.Name,
		Kind:         model.ProgramKind(req.Kind),
		CatalogYear:  req.CatalogYear,
		Requirements: req.Requirements,
	}

	if err := s.programRepo.Create(ctx, program); err != nil {
		if errors.Is(err, repository.ErrProgramSlugTaken) {
			return nil, ErrDuplicateProgram
		}
		return nil, err
	}

	s.log.Info().
		Str("program_id", program.ID.String()).
		Str("slug", program.Slug).
		Int("catalog_year", program.CatalogYear).
		Msg("Program created")

	return program, nil
}

// Update validates and replaces a program's name and requirement tree.
func (s *ProgramService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProgramRequest) (*model.Program, error) {
	if err := ValidateRequirementTree(&req.Requirements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequirements, err)
	}

	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	program.Name = req.Name
	program.Requirements = req.Requirements

	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}

	s.log.Info().Str("program_id", id.String()).Msg("Program updated")
	return program, nil
}

// Delete removes a program. Attached plans block deletion at the DB level.
func (s *ProgramService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.programRepo.Delete(ctx, id)
}

// ValidateRequirementTree checks a full program requirement tree: section and
// requirement IDs must be non-empty and unique within their scope, every rule
// must pass structural validation, and constraint references must resolve to
// requirement IDs that exist in the tree.
func ValidateRequirementTree(tree *model.ProgramRequirements) error {
	if len(tree.Sections) == 0 {
		return fmt.Errorf("program has no sections")
	}

	fullIDs := make(map[string]bool)
	sectionIDs := make(map[string]bool)

	for _, section := range tree.Sections {
		if section.ID == "" {
			return fmt.Errorf("section %q has an empty id", section.Title)
		}
		if sectionIDs[section.ID] {
			return fmt.Errorf("duplicate section id %q", section.ID)
		}
		sectionIDs[section.ID] = true

		reqIDs := make(map[string]bool)
		for _, req := range section.Requirements {
			if req.ID == "" {
				return fmt.Errorf("requirement %q in section %q has an empty id", req.Title, section.ID)
			}
			if reqIDs[req.ID] {
				return fmt.Errorf("duplicate requirement id %q in section %q", req.ID, section.ID)
			}
			reqIDs[req.ID] = true
			fullIDs[model.FullRequirementID(section.ID, req.ID)] = true

			if err := audit.ValidateRule(&req.Rule); err != nil {
				return fmt.Errorf("requirement %q: %w", model.FullRequirementID(section.ID, req.ID), err)
			}
		}
	}

	for _, c := range tree.ConstraintsStructured {
		if err := validateConstraintRefs(&c, fullIDs, sectionIDs); err != nil {
			return err
		}
	}
	for _, section := range tree.Sections {
		for _, req := range section.Requirements {
			for _, c := range req.ConstraintsStructured {
				if err := validateConstraintRefs(&c, fullIDs, sectionIDs); err != nil {
					return fmt.Errorf("requirement %q: %w", model.FullRequirementID(section.ID, req.ID), err)
				}
			}
		}
	}

	return nil
}

func validateConstraintRefs(c *model.Constraint, fullIDs, sectionIDs map[string]bool) error {
	switch c.Type {
	case model.ConstraintAllowDoubleCount:
		if c.Course == "" {
			return fmt.Errorf("allow_double_count constraint missing course")
		}
		for _, id := range c.RequirementIDs {
			if !fullIDs[id] {
				return fmt.Errorf("allow_double_count references unknown requirement %q", id)
			}
		}
	case model.ConstraintRequireCourseFromSections:
		if len(c.SectionIDs) == 0 {
			return fmt.Errorf("require_course_from_sections constraint has no sections")
		}
		for _, id := range c.SectionIDs {
			if !sectionIDs[id] {
				return fmt.Errorf("require_course_from_sections references unknown section %q", id)
			}
		}
	case model.ConstraintMinCourseCount, model.ConstraintMaxCourseCount:
		if c.Count <= 0 {
			return fmt.Errorf("%s constraint requires a positive count", c.Type)
		}
	case model.ConstraintMinCredits, model.ConstraintMaxCredits:
		if c.Credits <= 0 {
			return fmt.Errorf("%s constraint requires positive credits", c.Type)
		}
	case model.ConstraintCourseNumberMin:
		if c.Subject == "" || c.MinNumber <= 0 || c.Count <= 0 {
			return fmt.Errorf("course_number_min constraint requires a subject, a positive minimum and a count")
		}
	default:
		return fmt.Errorf("unknown constraint type %q", c.Type)
	}
	return nil
}
