package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openplanner/gradplan-backend/internal/model"
)

// ErrPlannedCourseNotFound is returned when a planned course id does not resolve.
var ErrPlannedCourseNotFound = errors.New("planned course not found")

// PlannedCourseRepository handles planned course data access.
type PlannedCourseRepository struct {
	pool *pgxpool.Pool
}

// NewPlannedCourseRepository creates a new PlannedCourseRepository.
func NewPlannedCourseRepository(pool *pgxpool.Pool) *PlannedCourseRepository {
	return &PlannedCourseRepository{pool: pool}
}

// GetByID retrieves a planned course.
func (r *PlannedCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PlannedCourse, error) {
	pc := &model.PlannedCourse{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, plan_id, course_code, class_id, semester_number, position, credits
		 FROM planned_courses WHERE id = $1`, id,
	).Scan(&pc.ID, &pc.PlanID, &pc.CourseCode, &pc.ClassID, &pc.SemesterNumber, &pc.Position, &pc.Credits)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlannedCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return pc, nil
}

// ListByPlan retrieves a plan's courses in assignment priority order:
// semester first, then position within the semester.
func (r *PlannedCourseRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]model.PlannedCourse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, plan_id, course_code, class_id, semester_number, position, credits
		 FROM planned_courses WHERE plan_id = $1
		 ORDER BY semester_number ASC, position ASC`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.PlannedCourse
	for rows.Next() {
		var pc model.PlannedCourse
		if err := rows.Scan(&pc.ID, &pc.PlanID, &pc.CourseCode, &pc.ClassID,
			&pc.SemesterNumber, &pc.Position, &pc.Credits); err != nil {
			return nil, err
		}
		courses = append(courses, pc)
	}
	return courses, rows.Err()
}

// Create inserts a planned course.
func (r *PlannedCourseRepository) Create(ctx context.Context, pc *model.PlannedCourse) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO planned_courses (plan_id, course_code, class_id, semester_number, position, credits)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		pc.PlanID, pc.CourseCode, pc.ClassID, pc.SemesterNumber, pc.Position, pc.Credits,
	).Scan(&pc.ID)
}

// Update moves a planned course or adjusts its counted credits.
func (r *PlannedCourseRepository) Update(ctx context.Context, pc *model.PlannedCourse) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE planned_courses SET semester_number = $1, position = $2, credits = $3 WHERE id = $4`,
		pc.SemesterNumber, pc.Position, pc.Credits, pc.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlannedCourseNotFound
	}
	return nil
}

// Delete removes a planned course; its fulfillments cascade.
func (r *PlannedCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM planned_courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlannedCourseNotFound
	}
	return nil
}
