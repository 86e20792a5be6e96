package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/comment-warden/internal/checklist"
	"github.com/sevigo/comment-warden/internal/core"
)

func TestReconcileFindingsDropsUntouchedComments(t *testing.T) {
	candidates := []checklist.Candidate{
		{Comment: core.Comment{FilePath: "a.go", StartLine: 3, EndLine: 4, Kind: core.KindInline}},
	}
	report := &core.AuditReport{
		Outcome: core.OutcomeNeedsEdit,
		Findings: []core.Finding{
			{FilePath: "b.go", LineNumber: 50, Kind: core.KindInline, Criterion: core.CriterionNarration, Verdict: core.VerdictRemove, Note: "invented"},
		},
	}

	dropped := reconcileFindings(report, candidates)

	assert.Equal(t, 1, dropped)
	// The invented location is gone; only the keep backfill for the real
	// comment remains and the outcome follows it.
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "a.go", report.Findings[0].FilePath)
	assert.Equal(t, core.VerdictKeep, report.Findings[0].Verdict)
	assert.Empty(t, report.ActionableFindings())
	assert.Equal(t, core.OutcomeClean, report.Outcome)
}

func TestReconcileFindingsSnapsToCommentSpan(t *testing.T) {
	candidates := []checklist.Candidate{
		{Comment: core.Comment{FilePath: "a.go", StartLine: 3, EndLine: 5, Kind: core.KindDoc}},
	}
	report := &core.AuditReport{
		Findings: []core.Finding{
			{FilePath: "a.go", LineNumber: 4, Criterion: core.CriterionAudience, Verdict: core.VerdictEdit, Note: "too informal", Rewrite: "Parses the widget header."},
		},
	}

	dropped := reconcileFindings(report, candidates)

	assert.Zero(t, dropped)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, 3, report.Findings[0].StartLine)
	assert.Equal(t, 5, report.Findings[0].LineNumber)
	assert.Equal(t, core.KindDoc, report.Findings[0].Kind)
	assert.Equal(t, core.OutcomeNeedsEdit, report.Outcome)
}
