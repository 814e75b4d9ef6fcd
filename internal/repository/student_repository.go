package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openplanner/gradplan-backend/internal/model"
)

// ErrAccountNotFound is returned when a student or advisor does not resolve.
var ErrAccountNotFound = errors.New("account not found")

// StudentRepository handles student account data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByEmail retrieves a student by email for login.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at FROM students WHERE email = $1`, email,
	).Scan(&s.ID, &s.Email, &s.Name, &s.PasswordHash, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a student.
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.Email, &s.Name, &s.PasswordHash, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a student account.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO students (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		s.Email, s.Name, s.PasswordHash,
	).Scan(&s.ID, &s.CreatedAt)
}
