package rbac

import (
	"context"
	"errors"
	"testing"

	"expense-control-plane/backend/internal/identity"
	"expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/platform/apperr"
)

// mockMembershipGetter implements MembershipGetter for tests.
type mockMembershipGetter struct {
	memberships map[string]*domain.Membership
	err         error
}

func (m *mockMembershipGetter) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.memberships[userID+":"+orgID], nil
}

var alice = identity.Principal{UserID: "user-1", Email: "alice@example.com", Name: "Alice"}

func TestRequireMember_Success(t *testing.T) {
	getter := &mockMembershipGetter{
		memberships: map[string]*domain.Membership{
			"user-1:org-1": {ID: "m1", UserID: "user-1", OrgID: "org-1", Role: domain.RoleMember},
		},
	}

	m, err := RequireMember(context.Background(), getter, alice, "org-1")
	if err != nil {
		t.Fatalf("RequireMember: %v", err)
	}
	if m.Role != domain.RoleMember {
		t.Errorf("role = %q, want %q", m.Role, domain.RoleMember)
	}
}

func TestRequireMember_NotMember(t *testing.T) {
	getter := &mockMembershipGetter{memberships: make(map[string]*domain.Membership)}

	_, err := RequireMember(context.Background(), getter, alice, "org-1")
	if err == nil {
		t.Fatal("expected error for non-member")
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("kind = %v, want KindNotFound", apperr.KindOf(err))
	}
	if err.Error() != MsgOrgNotFound {
		t.Errorf("message = %q, want %q", err.Error(), MsgOrgNotFound)
	}
}

// A nonexistent org and an org the caller does not belong to must produce
// indistinguishable errors.
func TestRequireMember_NonexistentOrgIndistinguishable(t *testing.T) {
	getter := &mockMembershipGetter{
		memberships: map[string]*domain.Membership{
			"user-1:org-1": {ID: "m1", UserID: "user-1", OrgID: "org-1", Role: domain.RoleMember},
		},
	}

	_, errNoOrg := RequireMember(context.Background(), getter, alice, "org-does-not-exist")
	_, errNoAccess := RequireMember(context.Background(), getter, identity.Principal{UserID: "user-2", Email: "bob@example.com"}, "org-1")
	if errNoOrg == nil || errNoAccess == nil {
		t.Fatal("expected errors for both cases")
	}
	if apperr.KindOf(errNoOrg) != apperr.KindOf(errNoAccess) {
		t.Errorf("kinds differ: %v vs %v", apperr.KindOf(errNoOrg), apperr.KindOf(errNoAccess))
	}
	if errNoOrg.Error() != errNoAccess.Error() {
		t.Errorf("messages differ: %q vs %q", errNoOrg.Error(), errNoAccess.Error())
	}
}

func TestRequireMember_StoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	getter := &mockMembershipGetter{err: storeErr}

	_, err := RequireMember(context.Background(), getter, alice, "org-1")
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want store error", err)
	}
	if apperr.KindOf(err) != 0 {
		t.Errorf("store errors must not carry a taxonomy kind, got %v", apperr.KindOf(err))
	}
}

func TestRequireAdmin_Success(t *testing.T) {
	getter := &mockMembershipGetter{
		memberships: map[string]*domain.Membership{
			"user-1:org-1": {ID: "m1", UserID: "user-1", OrgID: "org-1", Role: domain.RoleAdmin},
		},
	}

	m, err := RequireAdmin(context.Background(), getter, alice, "org-1", "invite users")
	if err != nil {
		t.Fatalf("RequireAdmin: %v", err)
	}
	if m.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want %q", m.Role, domain.RoleAdmin)
	}
}

func TestRequireAdmin_MemberForbidden(t *testing.T) {
	getter := &mockMembershipGetter{
		memberships: map[string]*domain.Membership{
			"user-1:org-1": {ID: "m1", UserID: "user-1", OrgID: "org-1", Role: domain.RoleMember},
		},
	}

	_, err := RequireAdmin(context.Background(), getter, alice, "org-1", "invite users")
	if err == nil {
		t.Fatal("expected error for member role")
	}
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("kind = %v, want KindForbidden", apperr.KindOf(err))
	}
	if got, want := err.Error(), "only admins can invite users"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestRequireAdmin_NonMemberSeesNotFound(t *testing.T) {
	getter := &mockMembershipGetter{memberships: make(map[string]*domain.Membership)}

	_, err := RequireAdmin(context.Background(), getter, alice, "org-1", "invite users")
	if err == nil {
		t.Fatal("expected error for non-member")
	}
	// Not forbidden: a non-member must not learn that the org exists.
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("kind = %v, want KindNotFound", apperr.KindOf(err))
	}
}
