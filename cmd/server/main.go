package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	categoryhandler "expense-control-plane/backend/internal/category/handler"
	categoryrepo "expense-control-plane/backend/internal/category/repository"
	categoryservice "expense-control-plane/backend/internal/category/service"
	"expense-control-plane/backend/internal/config"
	"expense-control-plane/backend/internal/db"
	invitationhandler "expense-control-plane/backend/internal/invitation/handler"
	invitationrepo "expense-control-plane/backend/internal/invitation/repository"
	invitationservice "expense-control-plane/backend/internal/invitation/service"
	"expense-control-plane/backend/internal/logger"
	membershiprepo "expense-control-plane/backend/internal/membership/repository"
	"expense-control-plane/backend/internal/notify"
	orghandler "expense-control-plane/backend/internal/organization/handler"
	orgrepo "expense-control-plane/backend/internal/organization/repository"
	orgservice "expense-control-plane/backend/internal/organization/service"
	policyhandler "expense-control-plane/backend/internal/policy/handler"
	policyrepo "expense-control-plane/backend/internal/policy/repository"
	policyservice "expense-control-plane/backend/internal/policy/service"
	"expense-control-plane/backend/internal/security"
	"expense-control-plane/backend/internal/server"
	"expense-control-plane/backend/internal/telemetry/otel"
	userrepo "expense-control-plane/backend/internal/user/repository"
)

const serviceName = "expense-control-plane"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		logger.Error("failed to set up telemetry", "error", err)
		os.Exit(1)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		logger.Error("failed to parse JWT_PUBLIC_KEY", "error", err)
		os.Exit(1)
	}
	verifier := security.NewTokenVerifier(publicKey, cfg.JWTIssuer, cfg.JWTAudience)

	users := userrepo.NewPostgresRepository(database)
	memberships := membershiprepo.NewPostgresRepository(database)
	orgs := orgrepo.NewPostgresRepository(database)
	categories := categoryrepo.NewPostgresRepository(database)
	invitations := invitationrepo.NewPostgresRepository(database)
	policies := policyrepo.NewPostgresRepository(database)

	var notifier notify.Notifier
	if cfg.SendGridAPIKey != "" {
		notifier = notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.MailFrom, cfg.AppBaseURL)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, invitation emails will be logged only")
		notifier = notify.LogNotifier{}
	}

	orgSvc := orgservice.NewService(orgs, memberships)
	categorySvc := categoryservice.NewService(categories, memberships)
	invitationSvc := invitationservice.NewService(invitations, memberships, orgs, notifier)
	policySvc := policyservice.NewService(policies, categories, memberships)

	auth := server.NewAuthMiddleware(verifier, users)
	srv := server.New(cfg.HTTPAddr, auth,
		orghandler.New(orgSvc),
		categoryhandler.New(categorySvc),
		invitationhandler.New(invitationSvc),
		policyhandler.New(policySvc),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	logger.Info("server listening", "addr", cfg.HTTPAddr, "env", cfg.Env)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}
}
