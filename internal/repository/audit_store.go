package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openplanner/gradplan-backend/internal/audit"
	"github.com/openplanner/gradplan-backend/internal/model"
)

// AuditStore is the pgx-backed implementation of audit.Store. It assembles
// the plan aggregate the fulfillment assigner consumes and delegates the
// clear/create sequence to the fulfillment repository.
type AuditStore struct {
	pool         *pgxpool.Pool
	fulfillments *FulfillmentRepository
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(pool *pgxpool.Pool, fulfillments *FulfillmentRepository) *AuditStore {
	return &AuditStore{pool: pool, fulfillments: fulfillments}
}

var _ audit.Store = (*AuditStore)(nil)

// GetPlanDetails loads a plan with its planned courses in assignment order
// (semester asc, position asc, catalog courses joined) and its programs in
// list order with requirement trees.
func (s *AuditStore) GetPlanDetails(ctx context.Context, planID uuid.UUID) (*model.PlanDetails, error) {
	details := &model.PlanDetails{}

	err := s.pool.QueryRow(ctx,
		`SELECT id, student_id, name, catalog_year, created_at, updated_at
		 FROM plans WHERE id = $1`, planID,
	).Scan(&details.Plan.ID, &details.Plan.StudentID, &details.Plan.Name,
		&details.Plan.CatalogYear, &details.Plan.CreatedAt, &details.Plan.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, audit.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	if details.PlannedCourses, err = s.loadPlannedCourses(ctx, planID); err != nil {
		return nil, err
	}
	if details.Programs, err = s.loadPrograms(ctx, planID); err != nil {
		return nil, err
	}
	return details, nil
}

// loadPlannedCourses left-joins the catalog so orphaned planned courses come
// back with a nil Course instead of disappearing.
func (s *AuditStore) loadPlannedCourses(ctx context.Context, planID uuid.UUID) ([]model.PlannedCourseDetail, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT pc.id, pc.plan_id, pc.course_code, pc.class_id, pc.semester_number, pc.position, pc.credits,
		        c.id, c.code, c.subject, c.number, c.suffix, c.title, c.min_credits, c.max_credits, c.attributes, c.catalog_year
		 FROM planned_courses pc
		 LEFT JOIN courses c ON c.code = pc.course_code
		 WHERE pc.plan_id = $1
		 ORDER BY pc.semester_number ASC, pc.position ASC`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlannedCourseDetail
	for rows.Next() {
		var d model.PlannedCourseDetail
		var (
			courseID    *uuid.UUID
			code        *string
			subject     *string
			number      *int
			suffix      *string
			title       *string
			minCredits  *int
			maxCredits  *int
			attrs       []byte
			catalogYear *int
		)
		if err := rows.Scan(&d.ID, &d.PlanID, &d.CourseCode, &d.ClassID,
			&d.SemesterNumber, &d.Position, &d.Credits,
			&courseID, &code, &subject, &number, &suffix, &title,
			&minCredits, &maxCredits, &attrs, &catalogYear); err != nil {
			return nil, err
		}
		if courseID != nil {
			c := &model.Course{
				ID: *courseID, Code: *code, Subject: *subject, Number: *number,
				Suffix: *suffix, Title: *title, MinCredits: *minCredits,
				MaxCredits: *maxCredits, CatalogYear: *catalogYear,
			}
			if len(attrs) > 0 {
				if err := unmarshalAttributes(attrs, &c.Attributes); err != nil {
					return nil, err
				}
			}
			d.Course = c
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *AuditStore) loadPrograms(ctx context.Context, planID uuid.UUID) ([]model.PlanProgramDetail, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT pp.id, pp.plan_id, pp.program_id, pp.position, p.name, p.requirements
		 FROM plan_programs pp
		 JOIN programs p ON p.id = pp.program_id
		 WHERE pp.plan_id = $1
		 ORDER BY pp.position`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlanProgramDetail
	for rows.Next() {
		var d model.PlanProgramDetail
		var tree []byte
		if err := rows.Scan(&d.PlanProgram.ID, &d.PlanProgram.PlanID,
			&d.PlanProgram.ProgramID, &d.PlanProgram.Position, &d.ProgramName, &tree); err != nil {
			return nil, err
		}
		if err := model.UnmarshalRequirements(tree, &d.Requirements); err != nil {
			return nil, fmt.Errorf("decode requirements for program %s: %w", d.PlanProgram.ProgramID, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ClearFulfillments implements audit.Store.
func (s *AuditStore) ClearFulfillments(ctx context.Context, planProgramIDs []uuid.UUID) error {
	return s.fulfillments.ClearByPlanPrograms(ctx, planProgramIDs)
}

// CreateFulfillments implements audit.Store.
func (s *AuditStore) CreateFulfillments(ctx context.Context, rows []model.RequirementFulfillment) error {
	return s.fulfillments.CreateBatch(ctx, rows)
}

func unmarshalAttributes(raw []byte, into *model.CourseAttributes) error {
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode course attributes: %w", err)
	}
	return nil
}
