package repository

import (
	"context"
	"database/sql"
	"errors"

	"expense-control-plane/backend/internal/category/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a category repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the category for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `SELECT id, org_id, name, description, created_at FROM expense_categories WHERE id = $1`
	c := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.OrgID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ListByOrg returns all categories for the org, name ascending.
// Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.Category, error) {
	const query = `SELECT id, org_id, name, description, created_at FROM expense_categories WHERE org_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Category
	for rows.Next() {
		c := &domain.Category{}
		if err := rows.Scan(&c.ID, &c.OrgID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create persists the category to the database. The category must have ID set.
// A duplicate (org, name) pair surfaces as a unique-constraint violation.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Category) error {
	const query = `INSERT INTO expense_categories (id, org_id, name, description, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.OrgID, c.Name, c.Description, c.CreatedAt)
	return err
}

// Update updates the existing category record in the database. Returns an error if the update fails.
func (r *PostgresRepository) Update(ctx context.Context, c *domain.Category) error {
	const query = `UPDATE expense_categories SET name = $2, description = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description)
	return err
}

// Delete removes the category; policies referencing it go with it (FK cascade).
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM expense_categories WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
