package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"expense-control-plane/backend/internal/invitation/domain"
	membershipdomain "expense-control-plane/backend/internal/membership/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an invitation repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const detailedColumns = `i.id, i.org_id, i.email, i.role, i.invited_by_id, i.status, i.created_at, i.expires_at,
	o.name, u.name, u.email`

const detailedJoins = `FROM invitations i
	JOIN organizations o ON o.id = i.org_id
	JOIN users u ON u.id = i.invited_by_id`

func scanDetailed(row interface{ Scan(...any) error }) (*domain.Detailed, error) {
	d := &domain.Detailed{}
	err := row.Scan(
		&d.ID, &d.OrgID, &d.Email, &d.Role, &d.InvitedByID, &d.Status, &d.CreatedAt, &d.ExpiresAt,
		&d.OrgName, &d.InviterName, &d.InviterEmail,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetPendingByOrgAndEmail returns the pending invitation for (org, email), or
// nil if there is none. At most one can exist; the lifecycle enforces that
// before insert.
func (r *PostgresRepository) GetPendingByOrgAndEmail(ctx context.Context, orgID, email string) (*domain.Invitation, error) {
	const query = `SELECT id, org_id, email, role, invited_by_id, status, created_at, expires_at
		FROM invitations WHERE org_id = $1 AND email = $2 AND status = 'pending'`
	inv := &domain.Invitation{}
	err := r.db.QueryRowContext(ctx, query, orgID, email).Scan(
		&inv.ID, &inv.OrgID, &inv.Email, &inv.Role, &inv.InvitedByID, &inv.Status, &inv.CreatedAt, &inv.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

// GetDetailedByIDAndEmail returns the invitation for id addressed to email,
// joined with org and inviter, or nil if no such row exists. Keying by both
// id and email keeps an invitation invisible to anyone it was not sent to.
func (r *PostgresRepository) GetDetailedByIDAndEmail(ctx context.Context, id, email string) (*domain.Detailed, error) {
	query := `SELECT ` + detailedColumns + ` ` + detailedJoins + ` WHERE i.id = $1 AND i.email = $2`
	d, err := scanDetailed(r.db.QueryRowContext(ctx, query, id, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// ListPendingByEmail returns pending, unexpired invitations addressed to
// email, newest first. Rows past their deadline are filtered out here but
// not rewritten; expiry writes happen only on accept.
func (r *PostgresRepository) ListPendingByEmail(ctx context.Context, email string, now time.Time) ([]*domain.Detailed, error) {
	query := `SELECT ` + detailedColumns + ` ` + detailedJoins +
		` WHERE i.email = $1 AND i.status = 'pending' AND i.expires_at > $2 ORDER BY i.created_at DESC`
	return r.queryDetailed(ctx, query, email, now)
}

// ListByOrg returns every invitation for the org regardless of status,
// newest first.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.Detailed, error) {
	query := `SELECT ` + detailedColumns + ` ` + detailedJoins +
		` WHERE i.org_id = $1 ORDER BY i.created_at DESC`
	return r.queryDetailed(ctx, query, orgID)
}

func (r *PostgresRepository) queryDetailed(ctx context.Context, query string, args ...any) ([]*domain.Detailed, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Detailed
	for rows.Next() {
		d, err := scanDetailed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Create persists the invitation. The invitation must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	const query = `INSERT INTO invitations (id, org_id, email, role, invited_by_id, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.OrgID, inv.Email, inv.Role, inv.InvitedByID, inv.Status, inv.CreatedAt, inv.ExpiresAt,
	)
	return err
}

// MarkExpired flips a pending invitation to expired. The status guard makes
// it a no-op when another caller already moved the row to a terminal state.
func (r *PostgresRepository) MarkExpired(ctx context.Context, id string) error {
	const query = `UPDATE invitations SET status = 'expired' WHERE id = $1 AND status = 'pending'`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// AcceptPending marks the invitation accepted and creates the membership in
// one transaction. The status guard on the UPDATE means two concurrent
// accepts cannot both pass: the loser affects zero rows and gets
// domain.ErrNotPending. A membership uniqueness violation aborts the whole
// transaction, leaving the invitation pending.
func (r *PostgresRepository) AcceptPending(ctx context.Context, id string, m *membershipdomain.Membership) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE invitations SET status = 'accepted' WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotPending
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO memberships (id, user_id, org_id, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.OrgID, m.Role, m.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
