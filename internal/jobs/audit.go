package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/comment-warden/internal/checklist"
	"github.com/sevigo/comment-warden/internal/comments"
	"github.com/sevigo/comment-warden/internal/config"
	"github.com/sevigo/comment-warden/internal/core"
	"github.com/sevigo/comment-warden/internal/github"
	"github.com/sevigo/comment-warden/internal/gitutil"
	"github.com/sevigo/comment-warden/internal/llm"
	"github.com/sevigo/comment-warden/internal/metrics"
	"github.com/sevigo/comment-warden/internal/storage"
)

const cloneTimeout = 2 * time.Minute

// AuditJob runs a full comment audit for one pull request: collect the
// comments the change touched, classify them, ask the model for verdicts and
// report the result back to GitHub.
type AuditJob struct {
	cfg       *config.Config
	auditor   llm.Auditor
	collector *comments.Collector
	git       *gitutil.Client
	store     storage.Store
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewAuditJob wires an AuditJob. All dependencies are required except metrics.
func NewAuditJob(cfg *config.Config, auditor llm.Auditor, collector *comments.Collector, git *gitutil.Client, store storage.Store, m *metrics.Metrics, logger *slog.Logger) core.Job {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if auditor == nil {
		panic("auditor cannot be nil")
	}
	if collector == nil {
		panic("collector cannot be nil")
	}
	if git == nil {
		panic("git client cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &AuditJob{
		cfg:       cfg,
		auditor:   auditor,
		collector: collector,
		git:       git,
		store:     store,
		metrics:   m,
		logger:    logger,
	}
}

// Run executes the audit for a given GitHub event.
func (j *AuditJob) Run(ctx context.Context, event *core.GitHubEvent) error {
	started := time.Now()

	if err := j.validateInputs(ctx, event); err != nil {
		j.logger.Error("input validation failed", "error", err)
		return fmt.Errorf("input validation failed: %w", err)
	}

	j.logger.Info("starting comment audit", "repo", event.RepoFullName, "pr", event.PRNumber, "trigger", event.Type)

	ghClient, token, err := github.CreateInstallationClient(ctx, j.cfg, event.InstallationID, j.logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	pr, err := ghClient.GetPullRequest(ctx, event.RepoOwner, event.RepoName, event.PRNumber)
	if err != nil {
		return fmt.Errorf("failed to get PR details: %w", err)
	}
	if pr.GetHead().GetSHA() == "" {
		return fmt.Errorf("PR %d has no valid head SHA", event.PRNumber)
	}
	event.HeadSHA = pr.GetHead().GetSHA()

	statusUpdater := github.NewStatusUpdater(ghClient)
	checkRunID, err := statusUpdater.InProgress(ctx, event, "Comment Audit", "Auditing comments touched by this change...")
	if err != nil {
		return fmt.Errorf("failed to set in-progress status: %w", err)
	}

	report, raw, validLines, err := j.audit(ctx, event, ghClient, token)
	if err != nil {
		j.failCheckRun(ctx, statusUpdater, event, checkRunID, "Comment audit failed")
		return err
	}

	if shouldPostReview(report) {
		if err := statusUpdater.PostAuditReview(ctx, event, report, validLines); err != nil {
			j.failCheckRun(ctx, statusUpdater, event, checkRunID, "Failed to post audit review")
			return fmt.Errorf("failed to post audit review: %w", err)
		}
	}

	j.persist(ctx, event, report, raw)

	conclusion, title, summary := checkRunResult(report)
	if err := statusUpdater.Completed(ctx, event, checkRunID, conclusion, title, summary); err != nil {
		return fmt.Errorf("failed to update completion status: %w", err)
	}

	j.metrics.ObserveAudit(report, string(event.Type), time.Since(started).Seconds())
	j.logger.Info("comment audit completed",
		"repo", event.RepoFullName,
		"pr", event.PRNumber,
		"outcome", report.Outcome,
		"findings", len(report.Findings),
		"duration", time.Since(started).Round(time.Second),
	)
	return nil
}

// audit performs the content part of the job: checkout, collection,
// classification and model call. It also returns the commentable diff lines
// per file so the review poster can place findings inline.
func (j *AuditJob) audit(ctx context.Context, event *core.GitHubEvent, ghClient github.Client, token string) (*core.AuditReport, string, map[string]map[int]struct{}, error) {
	changedFiles, err := ghClient.GetChangedFiles(ctx, event.RepoOwner, event.RepoName, event.PRNumber)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to get changed files: %w", err)
	}

	validLines := make(map[string]map[int]struct{}, len(changedFiles))
	for _, f := range changedFiles {
		validLines[f.Filename] = github.ParseValidLinesFromPatch(f.Patch, j.logger)
	}

	cloneCtx, cancel := context.WithTimeout(ctx, cloneTimeout)
	defer cancel()
	repoPath, cleanup, err := j.git.CloneAndCheckoutTemp(cloneCtx, event.RepoCloneURL, event.HeadSHA, token)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to clone repository: %w", err)
	}
	defer cleanup()

	repoCfg, err := config.LoadRepoConfig(repoPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			j.logger.Debug("no .comment-warden.yml found, using defaults", "repo", event.RepoFullName)
		} else {
			// A broken config is worth a warning but not a failed audit.
			j.logger.Warn("failed to load repo config, using defaults", "repo", event.RepoFullName, "error", err)
			repoCfg = core.DefaultRepoConfig()
		}
	}

	files := make([]comments.ChangedFile, 0, len(changedFiles))
	for _, f := range changedFiles {
		files = append(files, comments.ChangedFile{
			Path:       f.Filename,
			AddedLines: github.ParseAddedLinesFromPatch(f.Patch, j.logger),
		})
	}

	touched, err := j.collector.CollectTouched(repoPath, files, repoCfg)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to collect touched comments: %w", err)
	}

	if limit := j.cfg.Audit.MaxComments; limit > 0 && len(touched) > limit {
		j.logger.Warn("capping touched comments for audit", "total", len(touched), "limit", limit)
		touched = touched[:limit]
	}

	candidates := checklist.ClassifyAll(touched, repoCfg)

	report, raw, err := j.auditor.GenerateAudit(ctx, event, repoCfg, candidates)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to generate audit: %w", err)
	}
	return report, raw, validLines, nil
}

// persist stores the audit record; storage failures are logged, the review
// on GitHub already went out.
func (j *AuditJob) persist(ctx context.Context, event *core.GitHubEvent, report *core.AuditReport, raw string) {
	if j.store == nil {
		return
	}
	audit := &core.Audit{
		RepoFullName:  event.RepoFullName,
		PRNumber:      event.PRNumber,
		HeadSHA:       event.HeadSHA,
		Outcome:       report.Outcome,
		FindingsCount: len(report.ActionableFindings()),
		ReportContent: raw,
	}
	if err := j.store.SaveAudit(ctx, audit); err != nil {
		j.logger.Error("failed to persist audit record", "repo", event.RepoFullName, "pr", event.PRNumber, "error", err)
	}
}

func (j *AuditJob) validateInputs(ctx context.Context, event *core.GitHubEvent) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.RepoOwner == "" {
		return fmt.Errorf("repository owner cannot be empty")
	}
	if event.RepoName == "" {
		return fmt.Errorf("repository name cannot be empty")
	}
	if event.RepoFullName == "" {
		return fmt.Errorf("repository full name cannot be empty")
	}
	if event.RepoCloneURL == "" {
		return fmt.Errorf("repository clone URL cannot be empty")
	}
	if event.PRNumber <= 0 {
		return fmt.Errorf("pull request number must be positive, got: %d", event.PRNumber)
	}
	if event.InstallationID <= 0 {
		return fmt.Errorf("installation ID must be positive, got: %d", event.InstallationID)
	}
	return nil
}

func (j *AuditJob) failCheckRun(ctx context.Context, statusUpdater github.StatusUpdater, event *core.GitHubEvent, checkRunID int64, message string) {
	if err := statusUpdater.Completed(ctx, event, checkRunID, "failure", "Audit Failed", message); err != nil {
		j.logger.Error("failed to update failure status", "error", err)
	}
}

// shouldPostReview reports whether the audit produced anything worth a
// review. A change that touches no auditable comments posts nothing; the
// check run is the only trace it leaves.
func shouldPostReview(report *core.AuditReport) bool {
	return len(report.Findings) > 0
}

// checkRunResult maps an audit outcome onto check-run fields. A clean audit
// passes; one that wants edits concludes neutral so it never blocks a merge.
func checkRunResult(report *core.AuditReport) (conclusion, title, summary string) {
	actionable := len(report.ActionableFindings())
	switch {
	case len(report.Findings) == 0:
		return "success", "Nothing to Audit", "The change touches no auditable comments."
	case report.Outcome == core.OutcomeClean:
		return "success", "Comments Clean", "All comments touched by this change pass the audit."
	default:
		return "neutral", "Comment Edits Suggested",
			fmt.Sprintf("%d of %d touched comments could be improved; see the review for details.", actionable, len(report.Findings))
	}
}
