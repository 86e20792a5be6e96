package core

import "time"

// Verdict is the editorial decision for a single audited comment.
type Verdict string

const (
	VerdictKeep   Verdict = "keep"
	VerdictEdit   Verdict = "edit"
	VerdictRemove Verdict = "remove"
)

// Criterion names the checklist rule that produced a finding.
type Criterion string

const (
	// CriterionNarration flags inline comments that narrate what the code
	// does instead of recording a non-obvious rationale.
	CriterionNarration Criterion = "narration"
	// CriterionPlaceholder flags stale or unanchored TODO-style comments.
	CriterionPlaceholder Criterion = "placeholder"
	// CriterionAudience flags doc comments pitched at the wrong readership
	// or written in a non-technical register.
	CriterionAudience Criterion = "audience"
	// CriterionOutdated flags comments describing behavior that is no
	// longer true.
	CriterionOutdated Criterion = "outdated"
)

// Audit outcomes as reported in the summary and stored with the record.
const (
	OutcomeClean     = "CLEAN"
	OutcomeNeedsEdit = "NEEDS_EDITS"
)

// Finding is one piece of feedback about a specific comment.
type Finding struct {
	FilePath   string      `json:"file_path"`
	StartLine  int         `json:"start_line,omitempty"` // for multi-line comments
	LineNumber int         `json:"line_number"`
	Kind       CommentKind `json:"kind"`
	Criterion  Criterion   `json:"criterion"`
	Verdict    Verdict     `json:"verdict"`
	Note       string      `json:"note"`
	// Rewrite holds replacement text when the verdict is "edit".
	Rewrite string `json:"rewrite,omitempty"`
}

// AuditReport is the full structured output of a comment audit.
type AuditReport struct {
	Summary  string    `json:"summary"`
	Outcome  string    `json:"outcome"`
	Findings []Finding `json:"findings"`
}

// ActionableFindings returns the findings that require an edit or removal.
// Keep verdicts confirm a comment is fine and are reported only in statistics.
func (r *AuditReport) ActionableFindings() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Verdict == VerdictEdit || f.Verdict == VerdictRemove {
			out = append(out, f)
		}
	}
	return out
}

// Audit represents a single comment audit stored in the database.
type Audit struct {
	ID            int64     `db:"id"`
	AuditUID      string    `db:"audit_uid"`
	RepoFullName  string    `db:"repo_full_name"`
	PRNumber      int       `db:"pr_number"`
	HeadSHA       string    `db:"head_sha"`
	Outcome       string    `db:"outcome"`
	FindingsCount int       `db:"findings_count"`
	ReportContent string    `db:"report_content"`
	CreatedAt     time.Time `db:"created_at"`
}
