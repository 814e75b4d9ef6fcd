package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openplanner/gradplan-backend/internal/model"
)

// ErrCourseNotFound is returned when a course code does not resolve.
var ErrCourseNotFound = errors.New("course not found")

// CourseRepository handles catalog course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, code, subject, number, suffix, title, min_credits, max_credits, attributes, catalog_year`

func scanCourse(row pgx.Row) (*model.Course, error) {
	c := &model.Course{}
	var attrs []byte
	err := row.Scan(&c.ID, &c.Code, &c.Subject, &c.Number, &c.Suffix, &c.Title,
		&c.MinCredits, &c.MaxCredits, &attrs, &c.CatalogYear)
	if err != nil {
		return nil, err
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &c.Attributes); err != nil {
			return nil, fmt.Errorf("decode course attributes: %w", err)
		}
	}
	return c, nil
}

// GetByCode retrieves a course by its code ("CS 1101").
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	c, err := scanCourse(r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	return c, err
}

// ListBySubject retrieves courses for one subject, ordered by number.
// Pass an empty subject to list the whole catalog page.
func (r *CourseRepository) ListBySubject(ctx context.Context, subject string, limit, offset int) ([]model.Course, int, error) {
	countQuery := `SELECT COUNT(*) FROM courses`
	query := `SELECT ` + courseColumns + ` FROM courses`
	var countArgs, args []interface{}

	if subject != "" {
		countQuery += ` WHERE subject = $1`
		query += ` WHERE subject = $1`
		countArgs = append(countArgs, subject)
		args = append(args, subject)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY subject, number, suffix LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, *c)
	}
	return courses, total, rows.Err()
}

// Create inserts a catalog course. Used by the seed CLI, not the API.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	attrs, err := json.Marshal(c.Attributes)
	if err != nil {
		return fmt.Errorf("encode course attributes: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (code, subject, number, suffix, title, min_credits, max_credits, attributes, catalog_year)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (code, catalog_year) DO UPDATE SET title = EXCLUDED.title
		 RETURNING id`,
		c.Code, c.Subject, c.Number, c.Suffix, c.Title,
		c.MinCredits, c.MaxCredits, attrs, c.CatalogYear,
	).Scan(&c.ID)
}

// ListTerms retrieves all academic terms, newest first.
func (r *CourseRepository) ListTerms(ctx context.Context) ([]model.Term, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, academic_year, start_date, end_date
		 FROM terms ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []model.Term
	for rows.Next() {
		var t model.Term
		if err := rows.Scan(&t.ID, &t.Name, &t.AcademicYear, &t.StartDate, &t.EndDate); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}
