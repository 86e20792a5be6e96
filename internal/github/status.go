package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/comment-warden/internal/core"
)

const checkRunName = "Comment-Warden Audit"

// StatusUpdater reports audit progress and results back to the pull request,
// through a check run and a review with inline comments.
type StatusUpdater interface {
	InProgress(ctx context.Context, event *core.GitHubEvent, title, summary string) (int64, error)
	Completed(ctx context.Context, event *core.GitHubEvent, checkRunID int64, conclusion, title, summary string) error
	PostAuditReview(ctx context.Context, event *core.GitHubEvent, report *core.AuditReport, validLines map[string]map[int]struct{}) error
	PostSimpleComment(ctx context.Context, event *core.GitHubEvent, body string) error
}

type statusUpdater struct {
	client Client
}

// NewStatusUpdater creates a StatusUpdater backed by the given client.
func NewStatusUpdater(client Client) StatusUpdater {
	return &statusUpdater{client: client}
}

// PostSimpleComment posts a single general comment on the pull request.
func (s *statusUpdater) PostSimpleComment(ctx context.Context, event *core.GitHubEvent, body string) error {
	return s.client.CreateComment(ctx, event.RepoOwner, event.RepoName, event.PRNumber, body)
}

// InProgress creates a check run in the "in_progress" state and returns its ID.
func (s *statusUpdater) InProgress(ctx context.Context, event *core.GitHubEvent, title, summary string) (int64, error) {
	opts := github.CreateCheckRunOptions{
		Name:    checkRunName,
		HeadSHA: event.HeadSHA,
		Status:  github.Ptr("in_progress"),
		Output: &github.CheckRunOutput{
			Title:   &title,
			Summary: &summary,
		},
	}
	checkRun, err := s.client.CreateCheckRun(ctx, event.RepoOwner, event.RepoName, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to create check run: %w", err)
	}
	return checkRun.GetID(), nil
}

// Completed moves an existing check run to the "completed" state.
func (s *statusUpdater) Completed(ctx context.Context, event *core.GitHubEvent, checkRunID int64, conclusion, title, summary string) error {
	now := time.Now()
	opts := github.UpdateCheckRunOptions{
		Name:        checkRunName,
		Status:      github.Ptr("completed"),
		Conclusion:  &conclusion,
		CompletedAt: &github.Timestamp{Time: now},
		Output: &github.CheckRunOutput{
			Title:   &title,
			Summary: &summary,
		},
	}
	_, err := s.client.UpdateCheckRun(ctx, event.RepoOwner, event.RepoName, checkRunID, opts)
	return err
}

// PostAuditReview posts the audit as a pull request review. Actionable
// findings on commentable diff lines become inline comments; the rest are
// folded into the review body so nothing is silently dropped. Keep verdicts
// only show up in the statistics table.
func (s *statusUpdater) PostAuditReview(ctx context.Context, event *core.GitHubEvent, report *core.AuditReport, validLines map[string]map[int]struct{}) error {
	var comments []DraftReviewComment
	var offDiff []core.Finding

	for _, f := range report.ActionableFindings() {
		if f.FilePath == "" || f.LineNumber <= 0 {
			offDiff = append(offDiff, f)
			continue
		}
		if !lineCommentable(validLines, f.FilePath, f.LineNumber) {
			offDiff = append(offDiff, f)
			continue
		}

		startLine := f.StartLine
		if startLine == 0 || startLine > f.LineNumber {
			startLine = f.LineNumber
		}
		if startLine < f.LineNumber && !lineCommentable(validLines, f.FilePath, startLine) {
			// The range start fell outside the diff; anchor on the end line.
			startLine = f.LineNumber
		}

		comments = append(comments, DraftReviewComment{
			Path:      f.FilePath,
			StartLine: startLine,
			Line:      f.LineNumber,
			Body:      FormatFinding(f),
		})
	}

	body := formatAuditSummary(report, offDiff)
	return s.client.CreateReview(ctx, event.RepoOwner, event.RepoName, event.PRNumber, event.HeadSHA, body, comments)
}

func lineCommentable(validLines map[string]map[int]struct{}, path string, line int) bool {
	if validLines == nil {
		return true
	}
	fileLines, ok := validLines[path]
	if !ok {
		return false
	}
	_, ok = fileLines[line]
	return ok
}

// FormatFinding renders one finding as a GitHub-flavored comment body with a
// verdict badge, an alert block for the note and a suggested rewrite if any.
func FormatFinding(f core.Finding) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s %s | %s\n\n", verdictBadge(f.Verdict), verdictLabel(f.Verdict), criterionLabel(f.Criterion))

	if f.Note != "" {
		fmt.Fprintf(&sb, "> [!%s]\n", verdictAlert(f.Verdict))
		for _, line := range strings.Split(strings.TrimSpace(f.Note), "\n") {
			if strings.TrimSpace(line) == "" {
				sb.WriteString(">\n")
			} else {
				fmt.Fprintf(&sb, "> %s\n", line)
			}
		}
	}

	if f.Verdict == core.VerdictEdit && f.Rewrite != "" {
		sb.WriteString("\n**Suggested rewrite**\n\n")
		fmt.Fprintf(&sb, "```\n%s\n```\n", strings.TrimSpace(f.Rewrite))
	}

	return sb.String()
}

// formatAuditSummary builds the review body: outcome headline, the model's
// summary, findings that could not be placed inline, and verdict statistics.
func formatAuditSummary(report *core.AuditReport, offDiff []core.Finding) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s Comment Audit: %s\n\n", outcomeIcon(report.Outcome), report.Outcome)

	if report.Summary != "" {
		sb.WriteString(report.Summary)
		sb.WriteString("\n\n")
	}

	if len(offDiff) > 0 {
		sb.WriteString("---\n")
		sb.WriteString("#### Findings outside the diff\n\n")
		for _, f := range offDiff {
			loc := f.FilePath
			if f.LineNumber > 0 {
				loc = fmt.Sprintf("%s:%d", f.FilePath, f.LineNumber)
			}
			fmt.Fprintf(&sb, "- %s **%s** `%s` (%s): %s\n",
				verdictBadge(f.Verdict), verdictLabel(f.Verdict), loc, criterionLabel(f.Criterion), firstLine(f.Note))
		}
		sb.WriteString("\n")
	}

	if len(report.Findings) > 0 {
		counts := map[core.Verdict]int{}
		for _, f := range report.Findings {
			counts[f.Verdict]++
		}

		sb.WriteString("---\n")
		sb.WriteString("#### Verdicts\n\n")
		sb.WriteString("| Verdict | Count |\n")
		sb.WriteString("|---------|-------|\n")
		for _, v := range []core.Verdict{core.VerdictRemove, core.VerdictEdit, core.VerdictKeep} {
			if count := counts[v]; count > 0 {
				fmt.Fprintf(&sb, "| %s %s | %d |\n", verdictBadge(v), verdictLabel(v), count)
			}
		}
	}

	return sb.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func outcomeIcon(outcome string) string {
	switch outcome {
	case core.OutcomeClean:
		return "✅"
	case core.OutcomeNeedsEdit:
		return "✏️"
	default:
		return "📝"
	}
}

func verdictBadge(v core.Verdict) string {
	switch v {
	case core.VerdictRemove:
		return "🔴"
	case core.VerdictEdit:
		return "🟡"
	case core.VerdictKeep:
		return "🟢"
	default:
		return "⚪"
	}
}

func verdictLabel(v core.Verdict) string {
	switch v {
	case core.VerdictRemove:
		return "Remove"
	case core.VerdictEdit:
		return "Edit"
	case core.VerdictKeep:
		return "Keep"
	default:
		return string(v)
	}
}

func verdictAlert(v core.Verdict) string {
	switch v {
	case core.VerdictRemove:
		return "WARNING"
	case core.VerdictEdit:
		return "IMPORTANT"
	default:
		return "NOTE"
	}
}

func criterionLabel(c core.Criterion) string {
	switch c {
	case core.CriterionNarration:
		return "Narrates the code"
	case core.CriterionPlaceholder:
		return "Stale placeholder"
	case core.CriterionAudience:
		return "Audience mismatch"
	case core.CriterionOutdated:
		return "Out of date"
	default:
		return string(c)
	}
}
