// Seed loads a small idempotent development dataset: two users, one
// organization with both as members, a couple of categories, and an
// org-wide plus a user-specific policy to exercise resolution precedence.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"expense-control-plane/backend/internal/config"
	"expense-control-plane/backend/internal/db"
	"expense-control-plane/backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.LogLevel, cfg.LogFormat)

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seed(ctx, database); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed data loaded")
}

// Fixed ids keep reruns idempotent; every insert is ON CONFLICT DO NOTHING.
const (
	adminID   = "00000000-0000-0000-0000-000000000001"
	memberID  = "00000000-0000-0000-0000-000000000002"
	orgID     = "00000000-0000-0000-0000-000000000010"
	travelID  = "00000000-0000-0000-0000-000000000020"
	mealsID   = "00000000-0000-0000-0000-000000000021"
	wideID    = "00000000-0000-0000-0000-000000000030"
	narrowID  = "00000000-0000-0000-0000-000000000031"
	adminMID  = "00000000-0000-0000-0000-000000000040"
	memberMID = "00000000-0000-0000-0000-000000000041"
)

func seed(ctx context.Context, database *sql.DB) error {
	now := time.Now().UTC()

	statements := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO users (id, email, name, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			[]any{adminID, "ada@example.com", "Ada Admin", now}},
		{`INSERT INTO users (id, email, name, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			[]any{memberID, "max@example.com", "Max Member", now}},
		{`INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			[]any{orgID, "Acme Corp", now}},
		{`INSERT INTO memberships (id, user_id, org_id, role, created_at) VALUES ($1, $2, $3, 'admin', $4) ON CONFLICT DO NOTHING`,
			[]any{adminMID, adminID, orgID, now}},
		{`INSERT INTO memberships (id, user_id, org_id, role, created_at) VALUES ($1, $2, $3, 'member', $4) ON CONFLICT DO NOTHING`,
			[]any{memberMID, memberID, orgID, now}},
		{`INSERT INTO expense_categories (id, org_id, name, description, created_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			[]any{travelID, orgID, "Travel", "Flights, trains, and hotels", now}},
		{`INSERT INTO expense_categories (id, org_id, name, description, created_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			[]any{mealsID, orgID, "Meals", "Client and team meals", now}},
		{`INSERT INTO policies (id, org_id, category_id, user_id, max_amount_cents, period, requires_review, created_at)
			VALUES ($1, $2, $3, NULL, 50000, 'monthly', false, $4) ON CONFLICT DO NOTHING`,
			[]any{wideID, orgID, travelID, now}},
		{`INSERT INTO policies (id, org_id, category_id, user_id, max_amount_cents, period, requires_review, created_at)
			VALUES ($1, $2, $3, $4, 100000, 'weekly', true, $5) ON CONFLICT DO NOTHING`,
			[]any{narrowID, orgID, travelID, memberID, now}},
	}

	for _, s := range statements {
		if _, err := database.ExecContext(ctx, s.query, s.args...); err != nil {
			return err
		}
	}
	return nil
}
