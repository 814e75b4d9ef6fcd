package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/config"
	"github.com/openplanner/gradplan-backend/internal/model"
	"github.com/openplanner/gradplan-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrNotPlanOwner    = errors.New("plan belongs to another student")
	ErrUnknownCourse   = errors.New("course code not found in catalog")
	ErrProgramAttached = errors.New("program already attached to this plan")
)

// PlanService handles plan CRUD, planned-course placement and program
// attachment. Every mutation that can change fulfillments enqueues the plan
// for a background audit pass instead of auditing inline.
type PlanService struct {
	planRepo    *repository.PlanRepository
	plannedRepo *repository.PlannedCourseRepository
	courseRepo  *repository.CourseRepository
	programRepo *repository.ProgramRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewPlanService creates a new PlanService.
func NewPlanService(
	planRepo *repository.PlanRepository,
	plannedRepo *repository.PlannedCourseRepository,
	courseRepo *repository.CourseRepository,
	programRepo *repository.ProgramRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		plannedRepo: plannedRepo,
		courseRepo:  courseRepo,
		programRepo: programRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "plan_service").Logger(),
	}
}

// GetOwnedPlan loads a plan and verifies the student owns it.
func (s *PlanService) GetOwnedPlan(ctx context.Context, planID, studentID uuid.UUID) (*model.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.StudentID != studentID {
		return nil, ErrNotPlanOwner
	}
	return plan, nil
}

// GetPlan loads a plan without an ownership check. Advisor-facing reads only.
func (s *PlanService) GetPlan(ctx context.Context, planID uuid.UUID) (*model.Plan, error) {
	return s.planRepo.GetByID(ctx, planID)
}

// ListByStudent returns all of a student's plans.
func (s *PlanService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Plan, error) {
	plans, err := s.planRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []model.Plan{}
	}
	return plans, nil
}

// Create stores a new empty plan for the student.
func (s *PlanService) Create(ctx context.Context, studentID uuid.UUID, req *model.CreatePlanRequest) (*model.Plan, error) {
	plan := &model.Plan{
		StudentID:   studentID,
		Name:        req.Name,
		CatalogYear: req.CatalogYear,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	s.log.Info().Str("plan_id", plan.ID.String()).Str("student_id", studentID.String()).Msg("Plan created")
	return plan, nil
}

// Delete removes a plan and everything it owns (courses, attachments,
// fulfillments cascade at the DB level).
func (s *PlanService) Delete(ctx context.Context, planID, studentID uuid.UUID) error {
	if _, err := s.GetOwnedPlan(ctx, planID, studentID); err != nil {
		return err
	}
	return s.planRepo.Delete(ctx, planID)
}

// ListCourses returns a plan's placed courses ordered by semester and position.
func (s *PlanService) ListCourses(ctx context.Context, planID, studentID uuid.UUID) ([]model.PlannedCourse, error) {
	if _, err := s.GetOwnedPlan(ctx, planID, studentID); err != nil {
		return nil, err
	}
	courses, err := s.plannedRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []model.PlannedCourse{}
	}
	return courses, nil
}

// AddCourse places a catalog course in a plan semester and queues a re-audit.
func (s *PlanService) AddCourse(ctx context.Context, planID, studentID uuid.UUID, req *model.AddPlannedCourseRequest) (*model.PlannedCourse, error) {
	if _, err := s.GetOwnedPlan(ctx, planID, studentID); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.CourseCode))
	if _, err := s.courseRepo.GetByCode(ctx, code); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrUnknownCourse
		}
		return nil, err
	}

	pc := &model.PlannedCourse{
		PlanID:         planID,
		CourseCode:     code,
		SemesterNumber: req.SemesterNumber,
		Position:       req.Position,
		Credits:        req.Credits,
	}
	if req.ClassID != nil {
		classID, err := uuid.Parse(*req.ClassID)
		if err == nil {
			pc.ClassID = &classID
		}
	}

	if err := s.plannedRepo.Create(ctx, pc); err != nil {
		return nil, err
	}

	s.EnqueueAudit(ctx, planID)
	return pc, nil
}

// UpdateCourse moves a planned course or adjusts its credits, then queues a
// re-audit.
func (s *PlanService) UpdateCourse(ctx context.Context, planID, studentID, plannedCourseID uuid.UUID, req *model.UpdatePlannedCourseRequest) (*model.PlannedCourse, error) {
	if _, err := s.GetOwnedPlan(ctx, planID, studentID); err != nil {
		return nil, err
	}

	pc, err := s.plannedRepo.GetByID(ctx, plannedCourseID)
	if err != nil {
		return nil, err
	}
	if pc.PlanID != planID {
		return nil, repository.ErrPlannedCourseNotFound
	}

	pc.SemesterNumber = req.SemesterNumber
	pc.Position = req.Position
	pc.Credits = req.Credits

	if err := s.plannedRepo.Update(ctx, pc); err != nil {
		return nil, err
	}

	s.EnqueueAudit(ctx, planID)
	return pc, nil
}

// RemoveCourse deletes a planned course and queues a re-audit.
func (s *PlanService) RemoveCourse(ctx context.Context, planID, studentID, plannedCourseID uuid.UUID) error {
	if _, err := s.GetOwnedPlan(ctx, planID, studentID); err != nil {
		return err
	}

	pc, err := s.plannedRepo.GetByID(ctx, plannedCourseID)
	if err != nil {
		return err
	}
	if pc.PlanID != planID {
		return repository.ErrPlannedCourseNotFound
	}

	if err := s.plannedRepo.Delete(ctx, plannedCourseID); err != nil {
		return err
	}

	s.EnqueueAudit(ctx, planID)
	return nil
}

// ListPrograms returns the programs attached to a plan, in list order.
func (s *PlanService) ListPrograms(ctx context.Context, planID, studentID uuid.UUID) ([]model.PlanProgram, error) {
	if _, err := s.GetOwnedPlan(ctx, planID, studentID); err != nil {
		return nil, err
	}
	programs, err := s.planRepo.ListPrograms(ctx, planID)
	if err != nil {
		return nil, err
	}
	if programs == nil {
		programs = []model.PlanProgram{}
	}
	return programs, nil
}

// AttachProgram links a program to a plan at the end of the list and queues a
// re-audit.
func (s *PlanService) AttachProgram(ctx context.Context, planID, studentID, programID uuid.UUID) (*model.PlanProgram, error) {
	if _, err := s.GetOwnedPlan(ctx, planID, studentID); err != nil {
		return nil, err
	}
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		return nil, err
	}

	existing, err := s.planRepo.ListPrograms(ctx, planID)
	if err != nil {
		return nil, err
	}
	for _, pp := range existing {
		if pp.ProgramID == programID {
			return nil, ErrProgramAttached
		}
	}

	pp := &model.PlanProgram{
		PlanID:    planID,
		ProgramID: programID,
	}
	if err := s.planRepo.AttachProgram(ctx, pp); err != nil {
		return nil, err
	}

	s.EnqueueAudit(ctx, planID)
	return pp, nil
}

// DetachProgram unlinks a program from a plan. Its fulfillments cascade away;
// the queued re-audit rebuilds the rest.
func (s *PlanService) DetachProgram(ctx context.Context, planID, studentID, programID uuid.UUID) error {
	if _, err := s.GetOwnedPlan(ctx, planID, studentID); err != nil {
		return err
	}
	if err := s.planRepo.DetachProgram(ctx, planID, programID); err != nil {
		return err
	}
	s.EnqueueAudit(ctx, planID)
	return nil
}

// EnqueueAudit pushes the plan onto the background audit queue. Failures are
// logged, not surfaced: the mutation already committed and the next mutation
// or a manual trigger will re-enqueue.
func (s *PlanService) EnqueueAudit(ctx context.Context, planID uuid.UUID) {
	if err := s.rdb.RPush(ctx, config.WorkerKey.AuditPlansQueue, planID.String()).Err(); err != nil {
		s.log.Error().Err(err).Str("plan_id", planID.String()).Msg("Failed to enqueue audit job")
	}
}
