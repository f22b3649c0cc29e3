package repository

import (
	"context"
	"database/sql"
	"errors"

	membershipdomain "expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/organization/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an organization repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the organization for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Org, error) {
	const query = `SELECT id, name, created_at FROM organizations WHERE id = $1`
	o := &domain.Org{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.Name, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// CreateWithAdmin inserts the organization and the creator's admin membership
// in one transaction; both rows commit together or neither does.
func (r *PostgresRepository) CreateWithAdmin(ctx context.Context, o *domain.Org, m *membershipdomain.Membership) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const insertOrg = `INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, insertOrg, o.ID, o.Name, o.CreatedAt); err != nil {
		return err
	}

	const insertMembership = `INSERT INTO memberships (id, user_id, org_id, role, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, insertMembership, m.ID, m.UserID, m.OrgID, m.Role, m.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// ListByMember returns the organizations the user belongs to with their role,
// newest organization first. Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListByMember(ctx context.Context, userID string) ([]*domain.OrgWithRole, error) {
	const query = `SELECT o.id, o.name, o.created_at, m.role
		FROM memberships m
		JOIN organizations o ON o.id = m.org_id
		WHERE m.user_id = $1
		ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.OrgWithRole
	for rows.Next() {
		o := &domain.OrgWithRole{}
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt, &o.Role); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
