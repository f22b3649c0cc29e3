package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var policyRows = []string{
	"id", "org_id", "category_id", "user_id", "max_amount_cents", "period", "requires_review", "created_at",
}

func TestGetOrgWide_UsesNullUserExistenceQuery(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewPostgresRepository(conn)
	created := time.Now().UTC()

	mock.ExpectQuery("user_id IS NULL").
		WithArgs("org-1", "cat-1").
		WillReturnRows(sqlmock.NewRows(policyRows).
			AddRow("pol-1", "org-1", "cat-1", nil, int64(50000), "monthly", false, created))

	p, err := repo.GetOrgWide(context.Background(), "org-1", "cat-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Nil(t, p.UserID)
	assert.Equal(t, int64(50000), p.MaxAmountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrgWide_NoRowIsNil(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewPostgresRepository(conn)

	mock.ExpectQuery("user_id IS NULL").
		WithArgs("org-1", "cat-1").
		WillReturnRows(sqlmock.NewRows(policyRows))

	p, err := repo.GetOrgWide(context.Background(), "org-1", "cat-1")
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserSpecific_KeyedByFullTriple(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewPostgresRepository(conn)
	created := time.Now().UTC()

	mock.ExpectQuery("SELECT id, org_id, category_id, user_id, max_amount_cents, period, requires_review, created_at FROM policies").
		WithArgs("org-1", "cat-1", "user-1").
		WillReturnRows(sqlmock.NewRows(policyRows).
			AddRow("pol-2", "org-1", "cat-1", "user-1", int64(100000), "weekly", true, created))

	p, err := repo.GetUserSpecific(context.Background(), "org-1", "cat-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, p.UserID)
	assert.Equal(t, "user-1", *p.UserID)
	assert.Equal(t, int64(100000), p.MaxAmountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}
