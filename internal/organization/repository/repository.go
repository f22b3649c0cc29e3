package repository

import (
	"context"

	membershipdomain "expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/organization/domain"
)

// Repository defines persistence for organizations.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Org, error)
	// CreateWithAdmin persists the organization and the creator's admin
	// membership in a single transaction.
	CreateWithAdmin(ctx context.Context, o *domain.Org, m *membershipdomain.Membership) error
	ListByMember(ctx context.Context, userID string) ([]*domain.OrgWithRole, error)
}
