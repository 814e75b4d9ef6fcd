package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openplanner/gradplan-backend/internal/model"
)

// ErrPlanNotFound is returned when a plan id does not resolve.
var ErrPlanNotFound = errors.New("plan not found")

// PlanRepository handles plan and plan-program data access.
type PlanRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

// GetByID retrieves a plan.
func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	p := &model.Plan{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, name, catalog_year, created_at, updated_at
		 FROM plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.StudentID, &p.Name, &p.CatalogYear, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByStudent retrieves a student's plans, newest first.
func (r *PlanRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Plan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, name, catalog_year, created_at, updated_at
		 FROM plans WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []model.Plan
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Name, &p.CatalogYear, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Create inserts a new plan.
func (r *PlanRepository) Create(ctx context.Context, p *model.Plan) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO plans (student_id, name, catalog_year)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		p.StudentID, p.Name, p.CatalogYear,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Delete removes a plan; planned courses, program links and fulfillments
// cascade at the database level.
func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// AttachProgram links a program to a plan at the end of the program list.
func (r *PlanRepository) AttachProgram(ctx context.Context, pp *model.PlanProgram) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO plan_programs (plan_id, program_id, position)
		 VALUES ($1, $2, COALESCE((SELECT MAX(position) + 1 FROM plan_programs WHERE plan_id = $1), 0))
		 RETURNING id, position`,
		pp.PlanID, pp.ProgramID,
	).Scan(&pp.ID, &pp.Position)
}

// DetachProgram unlinks a program from a plan; its fulfillments cascade.
func (r *PlanRepository) DetachProgram(ctx context.Context, planID, programID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM plan_programs WHERE plan_id = $1 AND program_id = $2`, planID, programID)
	return err
}

// ListPrograms retrieves a plan's program links in list order.
func (r *PlanRepository) ListPrograms(ctx context.Context, planID uuid.UUID) ([]model.PlanProgram, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, plan_id, program_id, position
		 FROM plan_programs WHERE plan_id = $1 ORDER BY position`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []model.PlanProgram
	for rows.Next() {
		var pp model.PlanProgram
		if err := rows.Scan(&pp.ID, &pp.PlanID, &pp.ProgramID, &pp.Position); err != nil {
			return nil, err
		}
		links = append(links, pp)
	}
	return links, rows.Err()
}
