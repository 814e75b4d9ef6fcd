package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openplanner/gradplan-backend/internal/model"
)

// FulfillmentRepository handles requirement fulfillment data access.
type FulfillmentRepository struct {
	pool *pgxpool.Pool
}

// NewFulfillmentRepository creates a new FulfillmentRepository.
func NewFulfillmentRepository(pool *pgxpool.Pool) *FulfillmentRepository {
	return &FulfillmentRepository{pool: pool}
}

// ClearByPlanPrograms removes every fulfillment row of the given plan
// programs. Rows are always regenerated as a whole set.
func (r *FulfillmentRepository) ClearByPlanPrograms(ctx context.Context, planProgramIDs []uuid.UUID) error {
	if len(planProgramIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`DELETE FROM requirement_fulfillments WHERE plan_program_id = ANY($1)`, planProgramIDs)
	return err
}

// CreateBatch inserts fulfillment rows in one round trip.
func (r *FulfillmentRepository) CreateBatch(ctx context.Context, rows []model.RequirementFulfillment) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, f := range rows {
		batch.Queue(
			`INSERT INTO requirement_fulfillments (plan_program_id, requirement_id, planned_course_id, credits_applied)
			 VALUES ($1, $2, $3, $4)`,
			f.PlanProgramID, f.RequirementID, f.PlannedCourseID, f.CreditsApplied)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListByPlan retrieves every fulfillment row of a plan across its programs.
func (r *FulfillmentRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]model.RequirementFulfillment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT f.id, f.plan_program_id, f.requirement_id, f.planned_course_id, f.credits_applied, f.created_at
		 FROM requirement_fulfillments f
		 JOIN plan_programs pp ON pp.id = f.plan_program_id
		 WHERE pp.plan_id = $1
		 ORDER BY f.created_at, f.requirement_id`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fulfillments []model.RequirementFulfillment
	for rows.Next() {
		var f model.RequirementFulfillment
		if err := rows.Scan(&f.ID, &f.PlanProgramID, &f.RequirementID,
			&f.PlannedCourseID, &f.CreditsApplied, &f.CreatedAt); err != nil {
			return nil, err
		}
		fulfillments = append(fulfillments, f)
	}
	return fulfillments, rows.Err()
}

// ListByPlanProgram retrieves one program association's fulfillment rows.
func (r *FulfillmentRepository) ListByPlanProgram(ctx context.Context, planProgramID uuid.UUID) ([]model.RequirementFulfillment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, plan_program_id, requirement_id, planned_course_id, credits_applied, created_at
		 FROM requirement_fulfillments WHERE plan_program_id = $1
		 ORDER BY requirement_id`, planProgramID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fulfillments []model.RequirementFulfillment
	for rows.Next() {
		var f model.RequirementFulfillment
		if err := rows.Scan(&f.ID, &f.PlanProgramID, &f.RequirementID,
			&f.PlannedCourseID, &f.CreditsApplied, &f.CreatedAt); err != nil {
			return nil, err
		}
		fulfillments = append(fulfillments, f)
	}
	return fulfillments, rows.Err()
}
