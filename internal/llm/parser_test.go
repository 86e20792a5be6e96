package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/comment-warden/internal/core"
)

const sampleAudit = `# AUDIT SUMMARY
One comment narrates the code and one placeholder lacks an anchor.
The doc comment is fine.

# OUTCOME
NEEDS_EDITS

# FINDINGS
## Finding [internal/cache/cache.go:10]
**Verdict:** remove
**Criterion:** narration
**Kind:** inline
### Note
The comment repeats the increment on the next line.

## Finding [internal/cache/cache.go:15-16]
**Verdict:** edit
**Criterion:** placeholder
**Kind:** placeholder
### Note
The TODO names no issue or owner.
### Rewrite
// TODO(#412): evict before insert once the size histogram lands

## Finding [internal/cache/cache.go:3]
**Verdict:** keep
**Criterion:** audience
**Kind:** doc
### Note
Reads correctly for maintainers.
`

func TestParseAuditReport(t *testing.T) {
	report, err := ParseAuditReport(sampleAudit)
	require.NoError(t, err)

	assert.Contains(t, report.Summary, "narrates the code")
	assert.Equal(t, core.OutcomeNeedsEdit, report.Outcome)
	require.Len(t, report.Findings, 3)

	first := report.Findings[0]
	assert.Equal(t, "internal/cache/cache.go", first.FilePath)
	assert.Equal(t, 10, first.LineNumber)
	assert.Equal(t, core.VerdictRemove, first.Verdict)
	assert.Equal(t, core.CriterionNarration, first.Criterion)
	assert.Equal(t, core.KindInline, first.Kind)
	assert.Contains(t, first.Note, "repeats the increment")
	assert.Empty(t, first.Rewrite)

	second := report.Findings[1]
	assert.Equal(t, 15, second.StartLine)
	assert.Equal(t, 16, second.LineNumber)
	assert.Equal(t, core.VerdictEdit, second.Verdict)
	assert.Contains(t, second.Rewrite, "TODO(#412)")

	third := report.Findings[2]
	assert.Equal(t, core.VerdictKeep, third.Verdict)
}

func TestParseAuditReportOutcomeDerived(t *testing.T) {
	// A model claiming CLEAN while issuing an edit verdict gets corrected.
	md := `# AUDIT SUMMARY
All good.

# OUTCOME
CLEAN

# FINDINGS
## Finding [a.go:5]
**Verdict:** edit
**Criterion:** audience
**Kind:** doc
### Note
Too informal.
### Rewrite
// Fetch returns the row for id.
`
	report, err := ParseAuditReport(md)
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeNeedsEdit, report.Outcome)
}

func TestParseAuditReportAllKeepIsClean(t *testing.T) {
	md := `# AUDIT SUMMARY
Nothing to change.

# OUTCOME
NEEDS_EDITS

# FINDINGS
## Finding [a.go:5]
**Verdict:** keep
**Criterion:** narration
**Kind:** inline
### Note
Carries real rationale.
`
	report, err := ParseAuditReport(md)
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeClean, report.Outcome)
}

func TestParseAuditReportFencedResponse(t *testing.T) {
	md := "```markdown\n# AUDIT SUMMARY\nFine.\n\n# OUTCOME\nCLEAN\n\n# FINDINGS\n```"
	report, err := ParseAuditReport(md)
	require.NoError(t, err)
	assert.Equal(t, "Fine.", report.Summary)
	assert.Equal(t, core.OutcomeClean, report.Outcome)
}

func TestParseAuditReportGarbageFails(t *testing.T) {
	_, err := ParseAuditReport("I could not audit anything, sorry.")
	assert.Error(t, err)
}

func TestParseAuditReportMalformedHeader(t *testing.T) {
	md := `# FINDINGS
## Finding somewhere unclear
**Verdict:** remove
**Criterion:** narration
### Note
Best effort.
`
	report, err := ParseAuditReport(md)
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "unknown", report.Findings[0].FilePath)
}
