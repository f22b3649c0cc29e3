package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"expense-control-plane/backend/internal/category/domain"
	"expense-control-plane/backend/internal/identity"
	membershipdomain "expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/platform/apperr"
)

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
	createErr  error
	created    *domain.Category
	updated    *domain.Category
	deleted    string
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return f.categories[id], nil
}

func (f *fakeCategoryRepo) ListByOrg(ctx context.Context, orgID string) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range f.categories {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = c
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	f.updated = c
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	f.deleted = id
	return nil
}

type fakeMembershipGetter struct {
	memberships map[string]*membershipdomain.Membership
}

func (f *fakeMembershipGetter) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error) {
	return f.memberships[userID+":"+orgID], nil
}

var (
	admin  = identity.Principal{UserID: "user-admin", Email: "admin@example.com", Name: "Admin"}
	member = identity.Principal{UserID: "user-member", Email: "member@example.com", Name: "Member"}
)

func membershipsFor(orgID string) *fakeMembershipGetter {
	return &fakeMembershipGetter{memberships: map[string]*membershipdomain.Membership{
		admin.UserID + ":" + orgID:  {ID: "m1", UserID: admin.UserID, OrgID: orgID, Role: membershipdomain.RoleAdmin},
		member.UserID + ":" + orgID: {ID: "m2", UserID: member.UserID, OrgID: orgID, Role: membershipdomain.RoleMember},
	}}
}

func TestCreate_AdminOnly(t *testing.T) {
	repo := &fakeCategoryRepo{}
	svc := NewService(repo, membershipsFor("org-1"))

	_, err := svc.Create(context.Background(), member, "org-1", "Travel", "")
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("member create err = %v, want forbidden", err)
	}

	c, err := svc.Create(context.Background(), admin, "org-1", "  Travel  ", "flights and hotels")
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if c.Name != "Travel" {
		t.Errorf("name = %q, want %q", c.Name, "Travel")
	}
	if repo.created == nil {
		t.Fatal("category not persisted")
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	repo := &fakeCategoryRepo{createErr: &pgconn.PgError{Code: "23505"}}
	svc := NewService(repo, membershipsFor("org-1"))

	_, err := svc.Create(context.Background(), admin, "org-1", "Travel", "")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("err = %v, want bad request", err)
	}
}

func TestCreate_EmptyName(t *testing.T) {
	svc := NewService(&fakeCategoryRepo{}, membershipsFor("org-1"))

	_, err := svc.Create(context.Background(), admin, "org-1", "   ", "")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("err = %v, want bad request", err)
	}
}

func TestGetByID_NonMemberSeesNotFound(t *testing.T) {
	repo := &fakeCategoryRepo{categories: map[string]*domain.Category{
		"cat-1": {ID: "cat-1", OrgID: "org-1", Name: "Travel"},
	}}
	outsider := identity.Principal{UserID: "user-outsider", Email: "out@example.com"}
	svc := NewService(repo, membershipsFor("org-1"))

	_, err := svc.GetByID(context.Background(), outsider, "cat-1")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Message != MsgCategoryNotFound {
		t.Errorf("message = %v, want %q", err, MsgCategoryNotFound)
	}
}

func TestUpdate_MissingIsNotFound(t *testing.T) {
	svc := NewService(&fakeCategoryRepo{}, membershipsFor("org-1"))

	_, err := svc.Update(context.Background(), admin, "cat-missing", "Travel", "")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestDelete_MemberForbidden(t *testing.T) {
	repo := &fakeCategoryRepo{categories: map[string]*domain.Category{
		"cat-1": {ID: "cat-1", OrgID: "org-1", Name: "Travel"},
	}}
	svc := NewService(repo, membershipsFor("org-1"))

	err := svc.Delete(context.Background(), member, "cat-1")
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if repo.deleted != "" {
		t.Errorf("delete reached repository for id %q", repo.deleted)
	}
}

func TestDelete_Admin(t *testing.T) {
	repo := &fakeCategoryRepo{categories: map[string]*domain.Category{
		"cat-1": {ID: "cat-1", OrgID: "org-1", Name: "Travel"},
	}}
	svc := NewService(repo, membershipsFor("org-1"))

	if err := svc.Delete(context.Background(), admin, "cat-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if repo.deleted != "cat-1" {
		t.Errorf("deleted = %q, want cat-1", repo.deleted)
	}
}
