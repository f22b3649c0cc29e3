package repository

import (
	"context"
	"database/sql"
	"errors"

	"expense-control-plane/backend/internal/policy/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a policy repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const policyColumns = `id, org_id, category_id, user_id, max_amount_cents, period, requires_review, created_at`

func scanPolicy(row interface{ Scan(...any) error }) (*domain.Policy, error) {
	p := &domain.Policy{}
	err := row.Scan(
		&p.ID, &p.OrgID, &p.CategoryID, &p.UserID, &p.MaxAmountCents, &p.Period, &p.RequiresReview, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID returns the policy for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE id = $1`
	p, err := scanPolicy(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// GetUserSpecific returns the policy scoped to exactly this user for the
// (org, category) pair, or nil if none exists.
func (r *PostgresRepository) GetUserSpecific(ctx context.Context, orgID, categoryID, userID string) (*domain.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE org_id = $1 AND category_id = $2 AND user_id = $3`
	p, err := scanPolicy(r.db.QueryRowContext(ctx, query, orgID, categoryID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// GetOrgWide returns the organization-wide policy for the (org, category)
// pair, or nil if none exists. The NULL user slot is excluded from ordinary
// unique-key equality, so this is an existence query on user_id IS NULL, not
// a point lookup; the partial unique index guarantees at most one row.
func (r *PostgresRepository) GetOrgWide(ctx context.Context, orgID, categoryID string) (*domain.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE org_id = $1 AND category_id = $2 AND user_id IS NULL`
	p, err := scanPolicy(r.db.QueryRowContext(ctx, query, orgID, categoryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListByOrg returns all policies for the org, grouped by category with the
// org-wide row first within each group.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE org_id = $1 ORDER BY category_id, user_id NULLS FIRST`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create persists the policy. The policy must have ID set. A duplicate
// (org, category, user) key surfaces as a unique-constraint violation.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Policy) error {
	const query = `INSERT INTO policies (id, org_id, category_id, user_id, max_amount_cents, period, requires_review, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.OrgID, p.CategoryID, p.UserID, p.MaxAmountCents, p.Period, p.RequiresReview, p.CreatedAt,
	)
	return err
}

// Update rewrites the mutable fields of the policy. Scope (org, category,
// user) is fixed at creation.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Policy) error {
	const query = `UPDATE policies SET max_amount_cents = $2, period = $3, requires_review = $4 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.MaxAmountCents, p.Period, p.RequiresReview)
	return err
}

// Delete removes the policy.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM policies WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
