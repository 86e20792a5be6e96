// Package app initializes and orchestrates the main components of the
// Comment Warden service. It wires together the configuration, server,
// job dispatcher and other services.
package app

import (
	"log/slog"

	"github.com/sevigo/comment-warden/internal/comments"
	"github.com/sevigo/comment-warden/internal/config"
	"github.com/sevigo/comment-warden/internal/core"
	"github.com/sevigo/comment-warden/internal/db"
	"github.com/sevigo/comment-warden/internal/gitutil"
	"github.com/sevigo/comment-warden/internal/llm"
	"github.com/sevigo/comment-warden/internal/server"
	"github.com/sevigo/comment-warden/internal/storage"
)

// App holds the main application components. The exported fields are reused
// by the CLI and the terminal UI, which build audits outside the webhook path.
type App struct {
	Cfg       *config.Config
	Store     storage.Store
	Auditor   llm.Auditor
	Collector *comments.Collector
	Git       *gitutil.Client
	Logger    *slog.Logger

	server     *server.Server
	dispatcher core.JobDispatcher
	dbConn     *db.DB
}

// NewApp assembles the application from already constructed components.
func NewApp(
	cfg *config.Config,
	dbConn *db.DB,
	store storage.Store,
	auditor llm.Auditor,
	collector *comments.Collector,
	git *gitutil.Client,
	dispatcher core.JobDispatcher,
	srv *server.Server,
	logger *slog.Logger,
) *App {
	return &App{
		Cfg:        cfg,
		Store:      store,
		Auditor:    auditor,
		Collector:  collector,
		Git:        git,
		Logger:     logger,
		server:     srv,
		dispatcher: dispatcher,
		dbConn:     dbConn,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.Logger.Info("starting Comment Warden",
		"server_port", a.Cfg.Server.Port,
		"max_workers", a.Cfg.Audit.MaxWorkers,
		"provider", a.Cfg.AI.Provider)

	if err := a.server.Start(); err != nil {
		a.Logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.Logger.Info("shutting down Comment Warden services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.Logger.Error("error during HTTP server shutdown", "error", serverErr)
		// Continue to stop other components even if the server failed.
	}

	// Stop the job dispatcher, allowing in-flight audits to finish.
	a.dispatcher.Stop()

	a.Logger.Info("closing database connection")
	if err := a.dbConn.Close(); err != nil {
		a.Logger.Error("error closing database", "error", err)
	}

	if serverErr != nil {
		return serverErr
	}

	a.Logger.Info("Comment Warden stopped successfully")
	return nil
}
