// Package jobs defines the background tasks that run comment audits.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/comment-warden/internal/core"
	"github.com/sevigo/comment-warden/internal/metrics"
)

// queueSize bounds the number of pending audits; Dispatch rejects events
// beyond it so the webhook handler can tell GitHub to back off.
const queueSize = 100

// dispatcher implements core.JobDispatcher with a fixed pool of workers
// draining a bounded queue of GitHub events.
type dispatcher struct {
	auditJob   core.Job
	jobQueue   chan *core.GitHubEvent
	maxWorkers int
	wg         sync.WaitGroup
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(auditJob core.Job, maxWorkers int, m *metrics.Metrics, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		auditJob:   auditJob,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.GitHubEvent, queueSize),
		metrics:    m,
		logger:     logger,
	}
	d.startWorkers()
	return d
}

func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes events from the queue until it is closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting audit worker", "id", workerID)

	for event := range d.jobQueue {
		d.processEvent(workerID, event)
	}

	d.logger.Info("shutting down audit worker", "id", workerID)
}

func (d *dispatcher) processEvent(workerID int, event *core.GitHubEvent) {
	d.logger.Info("worker processing audit",
		"worker_id", workerID,
		"repo", event.RepoFullName,
		"pr", event.PRNumber,
	)

	if err := d.auditJob.Run(context.Background(), event); err != nil {
		d.logger.Error("comment audit job failed",
			"repo", event.RepoFullName,
			"pr", event.PRNumber,
			"error", err,
		)
	}
}

// Dispatch queues a GitHub event for processing by a worker. A full queue is
// an error, not a block; the caller decides how to surface it.
func (d *dispatcher) Dispatch(_ context.Context, event *core.GitHubEvent) error {
	d.logger.Info("queuing comment audit", "repo", event.RepoFullName, "pr", event.PRNumber)

	select {
	case d.jobQueue <- event:
		return nil
	default:
		if d.metrics != nil {
			d.metrics.QueueRejected.Inc()
		}
		return fmt.Errorf("job queue is full, cannot accept new audit")
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for audits to finish")
	close(d.jobQueue)
	d.wg.Wait()
	d.logger.Info("all audit jobs have finished")
}
