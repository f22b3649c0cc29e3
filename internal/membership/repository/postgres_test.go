package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-control-plane/backend/internal/membership/domain"
)

var membershipRows = []string{"id", "user_id", "org_id", "role", "created_at"}

func TestGetByUserAndOrg(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewPostgresRepository(conn)
	joined := time.Now().UTC()

	mock.ExpectQuery("SELECT id, user_id, org_id, role, created_at FROM memberships").
		WithArgs("user-1", "org-1").
		WillReturnRows(sqlmock.NewRows(membershipRows).
			AddRow("m-1", "user-1", "org-1", "admin", joined))

	m, err := repo.GetByUserAndOrg(context.Background(), "user-1", "org-1")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, domain.RoleAdmin, m.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUserAndOrg_NoRowIsNil(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewPostgresRepository(conn)

	mock.ExpectQuery("SELECT id, user_id, org_id, role, created_at FROM memberships").
		WithArgs("user-1", "org-1").
		WillReturnRows(sqlmock.NewRows(membershipRows))

	m, err := repo.GetByUserAndOrg(context.Background(), "user-1", "org-1")
	assert.NoError(t, err)
	assert.Nil(t, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailAndOrg_JoinsUserDirectory(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewPostgresRepository(conn)
	joined := time.Now().UTC()

	mock.ExpectQuery("JOIN users u ON u.id = m.user_id").
		WithArgs("max@example.com", "org-1").
		WillReturnRows(sqlmock.NewRows(membershipRows).
			AddRow("m-2", "user-2", "org-1", "member", joined))

	m, err := repo.GetByEmailAndOrg(context.Background(), "max@example.com", "org-1")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "user-2", m.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOrg_AdminsFirst(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewPostgresRepository(conn)
	joined := time.Now().UTC()

	mock.ExpectQuery("ORDER BY m.role, m.created_at").
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "org_id", "role", "created_at", "name", "email"}).
			AddRow("m-1", "user-1", "org-1", "admin", joined, "Ada", "ada@example.com").
			AddRow("m-2", "user-2", "org-1", "member", joined, "Max", "max@example.com"))

	members, err := repo.ListByOrg(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, domain.RoleAdmin, members[0].Role)
	assert.Equal(t, "ada@example.com", members[0].UserEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}
