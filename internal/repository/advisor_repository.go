package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openplanner/gradplan-backend/internal/model"
)

// AdvisorRepository handles advisor account data access.
type AdvisorRepository struct {
	pool *pgxpool.Pool
}

// NewAdvisorRepository creates a new AdvisorRepository.
func NewAdvisorRepository(pool *pgxpool.Pool) *AdvisorRepository {
	return &AdvisorRepository{pool: pool}
}

// GetByEmail retrieves an advisor by email for login.
func (r *AdvisorRepository) GetByEmail(ctx context.Context, email string) (*model.Advisor, error) {
	a := &model.Advisor{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at FROM advisors WHERE email = $1`, email,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an advisor.
func (r *AdvisorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Advisor, error) {
	a := &model.Advisor{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at FROM advisors WHERE id = $1`, id,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts an advisor account.
func (r *AdvisorRepository) Create(ctx context.Context, a *model.Advisor) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO advisors (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		a.Email, a.Name, a.PasswordHash,
	).Scan(&a.ID, &a.CreatedAt)
}
