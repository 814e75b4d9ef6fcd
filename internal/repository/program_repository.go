package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openplanner/gradplan-backend/internal/model"
)

// ErrProgramNotFound is returned when a program id does not resolve.
var ErrProgramNotFound = errors.New("program not found")

// ErrProgramSlugTaken is returned when (slug, catalog_year) already exists.
var ErrProgramSlugTaken = errors.New("program slug already taken for this catalog year")

// ProgramRepository handles degree program data access. The requirement tree
// is stored as a JSONB document.
type ProgramRepository struct {
	pool *pgxpool.Pool
}

// NewProgramRepository creates a new ProgramRepository.
func NewProgramRepository(pool *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{pool: pool}
}

func scanProgram(row pgx.Row) (*model.Program, error) {
	p := &model.Program{}
	var tree []byte
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Kind, &p.CatalogYear, &tree, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := model.UnmarshalRequirements(tree, &p.Requirements); err != nil {
		return nil, fmt.Errorf("decode program requirements: %w", err)
	}
	return p, nil
}

// GetByID retrieves a program with its requirement tree.
func (r *ProgramRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Program, error) {
	p, err := scanProgram(r.pool.QueryRow(ctx,
		`SELECT id, slug, name, kind, catalog_year, requirements, created_at, updated_at
		 FROM programs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	return p, err
}

// List retrieves all programs ordered by name.
func (r *ProgramRepository) List(ctx context.Context) ([]model.Program, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, slug, name, kind, catalog_year, requirements, created_at, updated_at
		 FROM programs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []model.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, *p)
	}
	return programs, rows.Err()
}

// Create inserts a new program.
func (r *ProgramRepository) Create(ctx context.Context, p *model.Program) error {
	tree, err := model.MarshalRequirements(p.Requirements)
	if err != nil {
		return fmt.Errorf("encode program requirements: %w", err)
	}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO programs (slug, name, kind, catalog_year, requirements)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		p.Slug, p.Name, p.Kind, p.CatalogYear, tree,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrProgramSlugTaken
		}
		return err
	}
	return nil
}

// Update replaces a program's name and requirement tree.
func (r *ProgramRepository) Update(ctx context.Context, p *model.Program) error {
	tree, err := model.MarshalRequirements(p.Requirements)
	if err != nil {
		return fmt.Errorf("encode program requirements: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE programs SET name = $1, requirements = $2, updated_at = NOW() WHERE id = $3`,
		p.Name, tree, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

// Delete removes a program. Plan associations cascade at the database level.
func (r *ProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}
