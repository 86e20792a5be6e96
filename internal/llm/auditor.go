package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/comment-warden/internal/checklist"
	"github.com/sevigo/comment-warden/internal/config"
	"github.com/sevigo/comment-warden/internal/core"
)

// generationTimeout bounds a single model call. Local models on large PRs
// have been observed to take minutes.
const generationTimeout = 5 * time.Minute

// Auditor turns a set of pre-classified comments into a structured audit.
type Auditor interface {
	GenerateAudit(ctx context.Context, event *core.GitHubEvent, repoCfg *core.RepoConfig, candidates []checklist.Candidate) (*core.AuditReport, string, error)
}

type auditor struct {
	cfg       *config.Config
	promptMgr *PromptManager
	model     llms.Model
	logger    *slog.Logger
}

// NewAuditor creates an Auditor backed by the configured generator model.
func NewAuditor(cfg *config.Config, promptMgr *PromptManager, model llms.Model, logger *slog.Logger) Auditor {
	return &auditor{
		cfg:       cfg,
		promptMgr: promptMgr,
		model:     model,
		logger:    logger,
	}
}

// NewGeneratorModel constructs the LLM client for the configured provider.
func NewGeneratorModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llms.Model, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return gemini.New(ctx,
			gemini.WithModel(cfg.AI.GeneratorModel),
			gemini.WithAPIKey(cfg.AI.GeminiAPIKey),
		)
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.AI.OllamaHost),
			ollama.WithModel(cfg.AI.GeneratorModel),
			ollama.WithHTTPClient(newOllamaHTTPClient()),
			ollama.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", cfg.AI.Provider)
	}
}

// newOllamaHTTPClient builds an HTTP client with generous timeouts. Local
// model servers can sit on a request for minutes before streaming anything.
func newOllamaHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: generationTimeout,
	}
}

// GenerateAudit renders the audit prompt, calls the model and parses the
// response. The returned raw string is the model output as stored with the
// audit record. An unparseable response is an error; the job fails loudly
// instead of posting a half-parsed review.
func (a *auditor) GenerateAudit(ctx context.Context, event *core.GitHubEvent, repoCfg *core.RepoConfig, candidates []checklist.Candidate) (*core.AuditReport, string, error) {
	if repoCfg == nil {
		repoCfg = core.DefaultRepoConfig()
	}

	if len(candidates) == 0 {
		report := &core.AuditReport{
			Summary: "The change touches no auditable comments.",
			Outcome: core.OutcomeClean,
		}
		return report, report.Summary, nil
	}

	promptData := map[string]string{
		"Title":              event.PRTitle,
		"Description":        event.PRBody,
		"Language":           event.Language,
		"TargetAudience":     repoCfg.TargetAudience,
		"CustomInstructions": strings.Join(repoCfg.CustomInstructions, "\n"),
		"Comments":           formatCandidates(candidates),
	}

	provider := ModelProvider(a.cfg.AI.GeneratorModel)
	prompt, err := a.promptMgr.Render(CommentAuditPrompt, provider, promptData)
	if err != nil {
		return nil, "", fmt.Errorf("could not render audit prompt: %w", err)
	}

	a.logger.Info("calling LLM for comment audit",
		"repo", event.RepoFullName,
		"pr", event.PRNumber,
		"comments", len(candidates),
	)

	raw, err := a.generateWithTimeout(ctx, prompt, generationTimeout)
	if err != nil {
		return nil, "", fmt.Errorf("LLM generation failed for comment audit: %w", err)
	}

	report, err := ParseAuditReport(raw)
	if err != nil {
		a.logger.Error("failed to parse audit response", "error", err, "raw_response", raw)
		return nil, "", err
	}

	if dropped := reconcileFindings(report, candidates); dropped > 0 {
		a.logger.Warn("dropped findings on comments the change did not touch",
			"repo", event.RepoFullName,
			"pr", event.PRNumber,
			"dropped", dropped,
		)
	}

	a.logger.Info("comment audit generated",
		"outcome", report.Outcome,
		"findings", len(report.Findings),
	)
	return report, raw, nil
}

// generateWithTimeout wraps the model call with a hard deadline so a hanging
// client cannot stall a worker indefinitely.
func (a *auditor) generateWithTimeout(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		resp string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		resp, err := a.model.Call(ctx, prompt)
		select {
		case resultCh <- result{resp, err}:
		case <-ctx.Done():
		}
	}()

	select {
	case res := <-resultCh:
		return res.resp, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// reconcileFindings enforces the one-verdict-per-comment contract. Findings
// that match no touched comment are dropped; the audit only ever reports the
// comments the change touched. Comments the model skipped get an explicit
// keep finding; locations line up with the candidate they belong to so
// inline placement works. Returns how many findings were dropped.
func reconcileFindings(report *core.AuditReport, candidates []checklist.Candidate) int {
	type key struct {
		path string
		line int
	}

	covered := make(map[key]struct{}, len(report.Findings))
	kept := make([]core.Finding, 0, len(report.Findings))
	for _, f := range report.Findings {
		matched := false
		for _, cand := range candidates {
			c := cand.Comment
			if c.FilePath == f.FilePath && c.Span(f.LineNumber) {
				// Snap the finding onto the comment's real span.
				f.StartLine = c.StartLine
				f.LineNumber = c.EndLine
				if f.Kind == "" {
					f.Kind = c.Kind
				}
				covered[key{c.FilePath, c.StartLine}] = struct{}{}
				matched = true
				break
			}
		}
		if matched {
			kept = append(kept, f)
		}
	}
	dropped := len(report.Findings) - len(kept)
	report.Findings = kept

	for _, cand := range candidates {
		c := cand.Comment
		if _, ok := covered[key{c.FilePath, c.StartLine}]; ok {
			continue
		}
		report.Findings = append(report.Findings, core.Finding{
			FilePath:   c.FilePath,
			StartLine:  c.StartLine,
			LineNumber: c.EndLine,
			Kind:       c.Kind,
			Criterion:  cand.Criterion,
			Verdict:    core.VerdictKeep,
			Note:       "No issues found.",
		})
	}

	if len(report.ActionableFindings()) > 0 {
		report.Outcome = core.OutcomeNeedsEdit
	} else {
		report.Outcome = core.OutcomeClean
	}
	return dropped
}

// formatCandidates renders the comment blocks embedded in the audit prompt.
func formatCandidates(candidates []checklist.Candidate) string {
	var sb strings.Builder
	for _, cand := range candidates {
		c := cand.Comment
		fmt.Fprintf(&sb, "### Comment [%s:%d-%d] kind=%s\n", c.FilePath, c.StartLine, c.EndLine, c.Kind)
		if cand.Flagged {
			fmt.Fprintf(&sb, "Heuristic flag: %s (%s)\n", cand.Criterion, cand.Hint)
		}
		sb.WriteString("Text:\n")
		sb.WriteString(c.Text)
		sb.WriteString("\n")
		if c.Code != "" {
			sb.WriteString("Adjacent code:\n```\n")
			sb.WriteString(c.Code)
			sb.WriteString("\n```\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
