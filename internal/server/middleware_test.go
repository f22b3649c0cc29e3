package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"expense-control-plane/backend/internal/identity"
	userdomain "expense-control-plane/backend/internal/user/domain"
)

type fakeVerifier struct {
	userID, email, name string
	err                 error
}

func (f *fakeVerifier) Verify(token string) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	return f.userID, f.email, f.name, nil
}

type fakeUpserter struct {
	upserted *userdomain.User
	err      error
}

func (f *fakeUpserter) Upsert(ctx context.Context, u *userdomain.User) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = u
	return nil
}

func TestAuthMiddleware_AttachesPrincipalAndUpserts(t *testing.T) {
	verifier := &fakeVerifier{userID: "user-1", email: "Alice@Example.com", name: "Alice"}
	users := &fakeUpserter{}
	mw := NewAuthMiddleware(verifier, users)

	var got identity.Principal
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = identity.FromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orgs", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	mw.Middleware(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ok {
		t.Fatal("principal not attached")
	}
	if got.UserID != "user-1" || got.Email != "alice@example.com" {
		t.Errorf("principal = %+v, want user-1 with lowercased email", got)
	}
	if users.upserted == nil || users.upserted.Email != "alice@example.com" {
		t.Errorf("upserted = %+v, want lowercased email", users.upserted)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	mw := NewAuthMiddleware(&fakeVerifier{}, &fakeUpserter{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orgs", nil)
	rec := httptest.NewRecorder()
	mw.Middleware(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mw := NewAuthMiddleware(&fakeVerifier{err: errors.New("bad signature")}, &fakeUpserter{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with an invalid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orgs", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	mw.Middleware(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
