package repository

import (
	"context"
	"database/sql"
	"errors"

	"expense-control-plane/backend/internal/membership/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a membership repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUserAndOrg returns the membership for the given user and org, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	const query = `SELECT id, user_id, org_id, role, created_at FROM memberships WHERE user_id = $1 AND org_id = $2`
	m := &domain.Membership{}
	err := r.db.QueryRowContext(ctx, query, userID, orgID).
		Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// GetByEmailAndOrg returns the membership held by the user account with the
// given email in the org, or nil if no such account or membership exists.
func (r *PostgresRepository) GetByEmailAndOrg(ctx context.Context, email, orgID string) (*domain.Membership, error) {
	const query = `SELECT m.id, m.user_id, m.org_id, m.role, m.created_at
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE u.email = $1 AND m.org_id = $2`
	m := &domain.Membership{}
	err := r.db.QueryRowContext(ctx, query, email, orgID).
		Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// ListByOrg returns all members of the org with user details, admins first,
// then by join time. Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.Member, error) {
	const query = `SELECT m.id, m.user_id, m.org_id, m.role, m.created_at, u.name, u.email
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.org_id = $1
		ORDER BY m.role, m.created_at`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Member
	for rows.Next() {
		m := &domain.Member{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.CreatedAt, &m.UserName, &m.UserEmail); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create persists the membership to the database. The membership must have ID set.
// A duplicate (user, org) pair surfaces as a unique-constraint violation.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Membership) error {
	const query = `INSERT INTO memberships (id, user_id, org_id, role, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.UserID, m.OrgID, m.Role, m.CreatedAt)
	return err
}
