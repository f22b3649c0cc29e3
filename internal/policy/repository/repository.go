package repository

import (
	"context"

	"expense-control-plane/backend/internal/policy/domain"
)

// Repository defines persistence for spending policies.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Policy, error)
	GetUserSpecific(ctx context.Context, orgID, categoryID, userID string) (*domain.Policy, error)
	GetOrgWide(ctx context.Context, orgID, categoryID string) (*domain.Policy, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Policy, error)
	Create(ctx context.Context, p *domain.Policy) error
	Update(ctx context.Context, p *domain.Policy) error
	Delete(ctx context.Context, id string) error
}
