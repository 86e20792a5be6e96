package wire

import (
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sevigo/comment-warden/internal/comments"
	"github.com/sevigo/comment-warden/internal/config"
	"github.com/sevigo/comment-warden/internal/core"
	"github.com/sevigo/comment-warden/internal/db"
	"github.com/sevigo/comment-warden/internal/jobs"
	"github.com/sevigo/comment-warden/internal/logger"
	"github.com/sevigo/comment-warden/internal/metrics"
	"github.com/sevigo/comment-warden/internal/storage"
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stderr":
		return os.Stderr
	case "file":
		f, err := os.OpenFile("comment-warden.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return os.Stdout
		}
		return f
	default:
		return os.Stdout
	}
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return &cfg.Database
}

func provideStore(dbConn *db.DB) storage.Store {
	return storage.NewStore(dbConn.DB)
}

func provideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func provideRegisterer(reg *prometheus.Registry) prometheus.Registerer {
	return reg
}

func provideGatherer(reg *prometheus.Registry) prometheus.Gatherer {
	return reg
}

func provideCollector(cfg *config.Config, slogLogger *slog.Logger) *comments.Collector {
	return comments.NewCollector(cfg.Audit.MaxFileSize, slogLogger)
}

func provideDispatcher(auditJob core.Job, cfg *config.Config, m *metrics.Metrics, slogLogger *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(auditJob, cfg.Audit.MaxWorkers, m, slogLogger)
}
