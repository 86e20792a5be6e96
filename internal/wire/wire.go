//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

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

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		server.NewServer,
		config.LoadConfig,
		logger.NewLogger,
		db.NewDatabase,
		gitutil.NewClient,
		metrics.New,
		jobs.NewAuditJob,
		llm.NewPromptManager,
		llm.NewGeneratorModel,
		llm.NewAuditor,
		provideStore,
		provideRegistry,
		provideRegisterer,
		provideGatherer,
		provideCollector,
		provideDispatcher,
		provideLoggerConfig,
		provideLogWriter,
		provideDBConfig,
	)
	return &app.App{}, nil, nil
}
