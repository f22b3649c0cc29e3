// Package service implements expense category management. Mutations are
// admin-only; reads are open to every member of the organization.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"expense-control-plane/backend/internal/category/domain"
	"expense-control-plane/backend/internal/db"
	"expense-control-plane/backend/internal/identity"
	"expense-control-plane/backend/internal/platform/apperr"
	"expense-control-plane/backend/internal/platform/rbac"
)

// MsgCategoryNotFound is returned whenever a category cannot be read by the
// caller, whether it does not exist or belongs to an org they cannot see.
const MsgCategoryNotFound = "expense category not found"

// CategoryRepo is the minimal category repository needed by the service.
type CategoryRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// Service implements category operations.
type Service struct {
	categories  CategoryRepo
	memberships rbac.MembershipGetter
	now         func() time.Time
}

// NewService returns a Service with the given dependencies.
func NewService(categories CategoryRepo, memberships rbac.MembershipGetter) *Service {
	return &Service{categories: categories, memberships: memberships, now: time.Now}
}

// Create adds a category to the organization. Admin only; a duplicate name
// within the org is rejected.
func (s *Service) Create(ctx context.Context, p identity.Principal, orgID, name, description string) (*domain.Category, error) {
	if _, err := rbac.RequireAdmin(ctx, s.memberships, p, orgID, "manage expense categories"); err != nil {
		return nil, err
	}
	c := &domain.Category{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, apperr.BadRequest("category name is required")
	}
	if err := s.categories.Create(ctx, c); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.BadRequest("a category with this name already exists in this organization")
		}
		return nil, err
	}
	return c, nil
}

// List returns the organization's categories, name ascending. Member only.
func (s *Service) List(ctx context.Context, p identity.Principal, orgID string) ([]*domain.Category, error) {
	if _, err := rbac.RequireMember(ctx, s.memberships, p, orgID); err != nil {
		return nil, err
	}
	return s.categories.ListByOrg(ctx, orgID)
}

// GetByID returns a single category. The caller must be a member of the
// category's organization; otherwise the category is reported as not found.
func (s *Service) GetByID(ctx context.Context, p identity.Principal, id string) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound(MsgCategoryNotFound)
	}
	if _, err := rbac.RequireMember(ctx, s.memberships, p, c.OrgID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.NotFound(MsgCategoryNotFound)
		}
		return nil, err
	}
	return c, nil
}

// Update renames or redescribes a category. The target is looked up first so
// a missing id reads as not found rather than forbidden; the caller must be
// an admin of the owning org.
func (s *Service) Update(ctx context.Context, p identity.Principal, id, name, description string) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound(MsgCategoryNotFound)
	}
	if _, err := rbac.RequireAdmin(ctx, s.memberships, p, c.OrgID, "manage expense categories"); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.NotFound(MsgCategoryNotFound)
		}
		return nil, err
	}
	c.Name = strings.TrimSpace(name)
	c.Description = strings.TrimSpace(description)
	if err := c.Validate(); err != nil {
		return nil, apperr.BadRequest("category name is required")
	}
	if err := s.categories.Update(ctx, c); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.BadRequest("a category with this name already exists in this organization")
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a category and, through the schema, any policies bound to
// it. Admin only.
func (s *Service) Delete(ctx context.Context, p identity.Principal, id string) error {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFound(MsgCategoryNotFound)
	}
	if _, err := rbac.RequireAdmin(ctx, s.memberships, p, c.OrgID, "manage expense categories"); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.NotFound(MsgCategoryNotFound)
		}
		return err
	}
	return s.categories.Delete(ctx, id)
}
