package repository

import (
	"context"
	"time"

	"expense-control-plane/backend/internal/invitation/domain"
	membershipdomain "expense-control-plane/backend/internal/membership/domain"
)

// Repository defines persistence for invitations.
type Repository interface {
	GetPendingByOrgAndEmail(ctx context.Context, orgID, email string) (*domain.Invitation, error)
	GetDetailedByIDAndEmail(ctx context.Context, id, email string) (*domain.Detailed, error)
	ListPendingByEmail(ctx context.Context, email string, now time.Time) ([]*domain.Detailed, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Detailed, error)
	Create(ctx context.Context, inv *domain.Invitation) error
	MarkExpired(ctx context.Context, id string) error
	AcceptPending(ctx context.Context, id string, m *membershipdomain.Membership) error
}
