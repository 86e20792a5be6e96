package github

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/comment-warden/internal/core"
)

func TestFormatFindingRemove(t *testing.T) {
	f := core.Finding{
		FilePath:   "internal/cache/cache.go",
		LineNumber: 42,
		Criterion:  core.CriterionNarration,
		Verdict:    core.VerdictRemove,
		Note:       "The comment repeats the call below it.",
	}

	got := FormatFinding(f)

	assert.Contains(t, got, "### 🔴 Remove | Narrates the code")
	assert.Contains(t, got, "> [!WARNING]")
	assert.Contains(t, got, "> The comment repeats the call below it.")
	assert.NotContains(t, got, "Suggested rewrite")
}

func TestFormatFindingEditWithRewrite(t *testing.T) {
	f := core.Finding{
		FilePath:   "pkg/api/handler.go",
		LineNumber: 7,
		Criterion:  core.CriterionAudience,
		Verdict:    core.VerdictEdit,
		Note:       "Doc comment is pitched at beginners.",
		Rewrite:    "// Handle dispatches the request to the matching route.",
	}

	got := FormatFinding(f)

	assert.Contains(t, got, "### 🟡 Edit | Audience mismatch")
	assert.Contains(t, got, "> [!IMPORTANT]")
	assert.Contains(t, got, "**Suggested rewrite**")
	assert.Contains(t, got, "// Handle dispatches the request to the matching route.")
}

func TestFormatAuditSummary(t *testing.T) {
	report := &core.AuditReport{
		Summary: "Two comments need attention.",
		Outcome: core.OutcomeNeedsEdit,
		Findings: []core.Finding{
			{FilePath: "a.go", LineNumber: 3, Verdict: core.VerdictRemove, Criterion: core.CriterionNarration},
			{FilePath: "b.go", LineNumber: 9, Verdict: core.VerdictEdit, Criterion: core.CriterionPlaceholder},
			{FilePath: "c.go", LineNumber: 1, Verdict: core.VerdictKeep, Criterion: core.CriterionAudience},
		},
	}

	got := formatAuditSummary(report, nil)

	assert.Contains(t, got, "Comment Audit: NEEDS_EDITS")
	assert.Contains(t, got, "Two comments need attention.")
	assert.Contains(t, got, "| 🔴 Remove | 1 |")
	assert.Contains(t, got, "| 🟡 Edit | 1 |")
	assert.Contains(t, got, "| 🟢 Keep | 1 |")
	assert.NotContains(t, got, "Findings outside the diff")
}

func TestFormatAuditSummaryOffDiff(t *testing.T) {
	report := &core.AuditReport{
		Outcome: core.OutcomeNeedsEdit,
		Findings: []core.Finding{
			{FilePath: "old.go", LineNumber: 120, Verdict: core.VerdictRemove, Criterion: core.CriterionOutdated, Note: "Describes the retired v1 flow.\nMore detail."},
		},
	}
	offDiff := report.Findings

	got := formatAuditSummary(report, offDiff)

	assert.Contains(t, got, "Findings outside the diff")
	assert.Contains(t, got, "`old.go:120`")
	assert.Contains(t, got, "Describes the retired v1 flow.")
	assert.NotContains(t, got, "More detail.")
}

func TestLineCommentable(t *testing.T) {
	valid := map[string]map[int]struct{}{
		"a.go": {10: {}, 11: {}},
	}

	assert.True(t, lineCommentable(valid, "a.go", 10))
	assert.False(t, lineCommentable(valid, "a.go", 12))
	assert.False(t, lineCommentable(valid, "b.go", 10))
	assert.True(t, lineCommentable(nil, "anything.go", 1))
}
