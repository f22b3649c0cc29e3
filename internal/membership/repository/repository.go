package repository

import (
	"context"

	"expense-control-plane/backend/internal/membership/domain"
)

// Repository defines persistence for memberships.
type Repository interface {
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	GetByEmailAndOrg(ctx context.Context, email, orgID string) (*domain.Membership, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Member, error)
	Create(ctx context.Context, m *domain.Membership) error
}
