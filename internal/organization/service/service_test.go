package service

import (
	"context"
	"testing"

	"expense-control-plane/backend/internal/identity"
	membershipdomain "expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/organization/domain"
	"expense-control-plane/backend/internal/platform/apperr"
)

type fakeOrgRepo struct {
	orgs    map[string]*domain.Org
	byUser  map[string][]*domain.OrgWithRole
	created *domain.Org
	admin   *membershipdomain.Membership
}

func (f *fakeOrgRepo) GetByID(ctx context.Context, id string) (*domain.Org, error) {
	return f.orgs[id], nil
}

func (f *fakeOrgRepo) CreateWithAdmin(ctx context.Context, o *domain.Org, m *membershipdomain.Membership) error {
	f.created = o
	f.admin = m
	return nil
}

func (f *fakeOrgRepo) ListByMember(ctx context.Context, userID string) ([]*domain.OrgWithRole, error) {
	return f.byUser[userID], nil
}

type fakeMembershipRepo struct {
	memberships map[string]*membershipdomain.Membership
	members     map[string][]*membershipdomain.Member
}

func (f *fakeMembershipRepo) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error) {
	return f.memberships[userID+":"+orgID], nil
}

func (f *fakeMembershipRepo) ListByOrg(ctx context.Context, orgID string) ([]*membershipdomain.Member, error) {
	return f.members[orgID], nil
}

var alice = identity.Principal{UserID: "user-1", Email: "alice@example.com", Name: "Alice"}

func TestCreate_CreatorBecomesAdmin(t *testing.T) {
	orgs := &fakeOrgRepo{}
	svc := NewService(orgs, &fakeMembershipRepo{})

	o, err := svc.Create(context.Background(), alice, "Acme")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.Name != "Acme" {
		t.Errorf("name = %q, want %q", o.Name, "Acme")
	}
	if orgs.admin == nil {
		t.Fatal("no admin membership created")
	}
	if orgs.admin.UserID != alice.UserID {
		t.Errorf("admin user = %q, want %q", orgs.admin.UserID, alice.UserID)
	}
	if orgs.admin.OrgID != o.ID {
		t.Errorf("admin org = %q, want %q", orgs.admin.OrgID, o.ID)
	}
	if orgs.admin.Role != membershipdomain.RoleAdmin {
		t.Errorf("admin role = %q, want %q", orgs.admin.Role, membershipdomain.RoleAdmin)
	}
}

func TestCreate_EmptyName(t *testing.T) {
	svc := NewService(&fakeOrgRepo{}, &fakeMembershipRepo{})

	_, err := svc.Create(context.Background(), alice, "   ")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("err = %v, want bad request", err)
	}
}

func TestGetByID_Member(t *testing.T) {
	orgs := &fakeOrgRepo{orgs: map[string]*domain.Org{
		"org-1": {ID: "org-1", Name: "Acme"},
	}}
	memberships := &fakeMembershipRepo{
		memberships: map[string]*membershipdomain.Membership{
			"user-1:org-1": {ID: "m1", UserID: "user-1", OrgID: "org-1", Role: membershipdomain.RoleMember},
		},
		members: map[string][]*membershipdomain.Member{
			"org-1": {
				{Membership: membershipdomain.Membership{ID: "m1", UserID: "user-1", OrgID: "org-1", Role: membershipdomain.RoleMember}, UserName: "Alice", UserEmail: "alice@example.com"},
			},
		},
	}
	svc := NewService(orgs, memberships)

	d, err := svc.GetByID(context.Background(), alice, "org-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if d.Org.ID != "org-1" {
		t.Errorf("org id = %q, want org-1", d.Org.ID)
	}
	if d.Role != membershipdomain.RoleMember {
		t.Errorf("role = %q, want member", d.Role)
	}
	if len(d.Members) != 1 {
		t.Errorf("members = %d, want 1", len(d.Members))
	}
}

func TestGetByID_NonMemberNotFound(t *testing.T) {
	orgs := &fakeOrgRepo{orgs: map[string]*domain.Org{
		"org-1": {ID: "org-1", Name: "Acme"},
	}}
	svc := NewService(orgs, &fakeMembershipRepo{memberships: make(map[string]*membershipdomain.Membership)})

	_, err := svc.GetByID(context.Background(), alice, "org-1")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}
