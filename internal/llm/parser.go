package llm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sevigo/comment-warden/internal/core"
)

var (
	// Matches: ## Finding [path/to/file.go:12] or ## Finding [path/to/file.go:10-12]
	findingHeaderRegex = regexp.MustCompile(`(?i)##\s+Finding\s+\[(.*?):\s*(\d+)(?:\s*-\s*(\d+))?\]`)
	verdictRegex       = regexp.MustCompile(`(?i)\*\*Verdict:?\*\*\s*(\S+)`)
	criterionRegex     = regexp.MustCompile(`(?i)\*\*Criterion:?\*\*\s*(\S+)`)
	kindRegex          = regexp.MustCompile(`(?i)\*\*Kind:?\*\*\s*(\S+)`)
)

// ParseAuditReport extracts a structured audit from the model's Markdown
// output. It tolerates the usual quirks: wrapping code fences, inconsistent
// heading case, missing optional sections. A response with neither a summary
// nor findings is an error; the caller fails the audit rather than posting
// an empty review.
func ParseAuditReport(markdown string) (*core.AuditReport, error) {
	markdown = stripMarkdownFence(markdown)

	report := &core.AuditReport{}
	lines := strings.Split(markdown, "\n")

	var section string
	var current *core.Finding
	var noteBuilder, rewriteBuilder, summaryBuilder strings.Builder
	var subSection string

	flush := func() {
		if current == nil {
			return
		}
		current.Note = strings.TrimSpace(noteBuilder.String())
		current.Rewrite = strings.TrimSpace(rewriteBuilder.String())
		noteBuilder.Reset()
		rewriteBuilder.Reset()
		report.Findings = append(report.Findings, *current)
		current = nil
		subSection = ""
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		upper := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(upper, "# AUDIT SUMMARY"):
			flush()
			section = "SUMMARY"
			continue
		case strings.HasPrefix(upper, "# OUTCOME"):
			flush()
			section = "OUTCOME"
			continue
		case strings.HasPrefix(upper, "# FINDINGS"):
			flush()
			section = "FINDINGS"
			continue
		}

		if strings.HasPrefix(upper, "## FINDING") {
			flush()
			matches := findingHeaderRegex.FindStringSubmatch(line)
			if len(matches) >= 3 {
				end, _ := strconv.Atoi(matches[2])
				f := core.Finding{
					FilePath:   strings.TrimSpace(matches[1]),
					LineNumber: end,
				}
				if matches[3] != "" {
					// "start-end" range in the header
					f.StartLine = end
					if rangeEnd, err := strconv.Atoi(matches[3]); err == nil {
						f.LineNumber = rangeEnd
					}
				}
				current = &f
			} else {
				current = &core.Finding{FilePath: "unknown"}
			}
			section = "FINDING_CONTENT"
			subSection = ""
			continue
		}

		switch section {
		case "SUMMARY":
			if line != "" && !strings.HasPrefix(line, "#") {
				if summaryBuilder.Len() > 0 {
					summaryBuilder.WriteString("\n")
				}
				summaryBuilder.WriteString(line)
			}
		case "OUTCOME":
			if line != "" && !strings.HasPrefix(line, "#") && report.Outcome == "" {
				report.Outcome = normalizeOutcome(line)
			}
		case "FINDING_CONTENT":
			if current == nil {
				continue
			}

			if m := verdictRegex.FindStringSubmatch(line); len(m) > 1 {
				current.Verdict = core.Verdict(strings.ToLower(strings.TrimSpace(m[1])))
				continue
			}
			if m := criterionRegex.FindStringSubmatch(line); len(m) > 1 {
				current.Criterion = core.Criterion(strings.ToLower(strings.TrimSpace(m[1])))
				continue
			}
			if m := kindRegex.FindStringSubmatch(line); len(m) > 1 {
				current.Kind = core.CommentKind(strings.ToLower(strings.TrimSpace(m[1])))
				continue
			}

			if strings.HasPrefix(line, "### Note") {
				subSection = "NOTE"
				continue
			}
			if strings.HasPrefix(line, "### Rewrite") {
				subSection = "REWRITE"
				continue
			}

			switch subSection {
			case "NOTE":
				if line != "" || noteBuilder.Len() > 0 {
					noteBuilder.WriteString(raw + "\n")
				}
			case "REWRITE":
				if line != "" || rewriteBuilder.Len() > 0 {
					rewriteBuilder.WriteString(raw + "\n")
				}
			}
		}
	}

	flush()
	report.Summary = strings.TrimSpace(summaryBuilder.String())

	if report.Summary == "" && len(report.Findings) == 0 {
		return nil, fmt.Errorf("failed to parse audit: no recognized sections found")
	}

	// The outcome is derived, never trusted: actionable findings force
	// NEEDS_EDITS and their absence forces CLEAN.
	if len(report.ActionableFindings()) > 0 {
		report.Outcome = core.OutcomeNeedsEdit
	} else {
		report.Outcome = core.OutcomeClean
	}

	return report, nil
}

func normalizeOutcome(line string) string {
	upper := strings.ToUpper(strings.TrimSpace(line))
	switch {
	case strings.Contains(upper, core.OutcomeNeedsEdit):
		return core.OutcomeNeedsEdit
	case strings.Contains(upper, core.OutcomeClean):
		return core.OutcomeClean
	default:
		return ""
	}
}

// stripMarkdownFence removes a wrapping ```markdown ... ``` fence that some
// models add around their whole output.
func stripMarkdownFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "```markdown") || strings.HasPrefix(trimmed, "```md") {
		idx := strings.Index(trimmed, "\n")
		if idx < 0 {
			return s
		}
		inner := trimmed[idx+1:]
		if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
			inner = inner[:lastFence]
		}
		return strings.TrimSpace(inner)
	}
	return s
}
