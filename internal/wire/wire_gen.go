// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/sevigo/comment-warden/internal/app"
	"github.com/sevigo/comment-warden/internal/config"
	"github.com/sevigo/comment-warden/internal/db"
	"github.com/sevigo/comment-warden/internal/gitutil"
	"github.com/sevigo/comment-warden/internal/jobs"
	"github.com/sevigo/comment-warden/internal/llm"
	"github.com/sevigo/comment-warden/internal/logger"
	"github.com/sevigo/comment-warden/internal/metrics"
	"github.com/sevigo/comment-warden/internal/server"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger := logger.NewLogger(provideLoggerConfig(cfg), provideLogWriter(cfg))

	dbConn, dbCleanup, err := db.NewDatabase(provideDBConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	store := provideStore(dbConn)

	registry := provideRegistry()
	m := metrics.New(provideRegisterer(registry))

	promptMgr, err := llm.NewPromptManager()
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create prompt manager: %w", err)
	}

	model, err := llm.NewGeneratorModel(ctx, cfg, slogLogger)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create generator model: %w", err)
	}
	auditor := llm.NewAuditor(cfg, promptMgr, model, slogLogger)

	collector := provideCollector(cfg, slogLogger)
	gitClient := gitutil.NewClient(slogLogger)

	auditJob := jobs.NewAuditJob(cfg, auditor, collector, gitClient, store, m, slogLogger)
	dispatcher := provideDispatcher(auditJob, cfg, m, slogLogger)

	srv := server.NewServer(ctx, cfg, dispatcher, provideGatherer(registry), slogLogger)

	application := app.NewApp(cfg, dbConn, store, auditor, collector, gitClient, dispatcher, srv, slogLogger)

	cleanup := func() {
		dbCleanup()
	}

	return application, cleanup, nil
}
