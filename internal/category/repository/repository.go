package repository

import (
	"context"

	"expense-control-plane/backend/internal/category/domain"
)

// Repository defines persistence for expense categories.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
}
