// Package checklist applies deterministic pre-checks to touched comments.
// The heuristics flag candidates for each audit criterion; the final verdict
// stays with the LLM auditor except in offline mode, where the heuristic
// verdicts are used directly.
package checklist

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/sevigo/comment-warden/internal/comments"
	"github.com/sevigo/comment-warden/internal/core"
)

// narrationThreshold is the identifier-overlap ratio above which an inline
// comment is considered to be narrating the code.
const narrationThreshold = 0.5

// Candidate is a heuristic pre-classification of a single comment.
type Candidate struct {
	Comment core.Comment
	// Flagged marks the comment as suspect for Criterion.
	Flagged   bool
	Criterion core.Criterion
	// Verdict is the heuristic's own suggestion, used in offline mode.
	Verdict core.Verdict
	// Hint explains the flag in one sentence, fed into the audit prompt.
	Hint string
	// Score carries the narration overlap ratio where applicable.
	Score float64
}

// anchorRegex matches references that tie a placeholder to trackable work:
// issue numbers, ticket keys, usernames in TODO(name), and URLs.
var anchorRegex = regexp.MustCompile(`(#\d+|\b[A-Z][A-Z0-9]+-\d+\b|https?://\S+|\(\s*[\w.-]+\s*\)|\bGH-\d+\b)`)

// informalWords undermine the technical register expected of doc comments.
var informalWords = []string{
	"simply", "just", "easy", "easily", "obviously", "basically",
	"awesome", "magic", "stuff", "things", "etc etc",
}

// Classify runs every checklist criterion over one comment and returns the
// strongest candidate. Comments that pass all checks come back unflagged
// with a keep verdict.
func Classify(c core.Comment, cfg *core.RepoConfig) Candidate {
	if cfg == nil {
		cfg = core.DefaultRepoConfig()
	}

	// Placeholder markers configured per repo may reclassify an inline
	// comment the extractor did not recognize.
	kind := c.Kind
	if kind != core.KindPlaceholder && comments.HasPlaceholderMarker(c.Text, cfg.PlaceholderMarkers) {
		kind = core.KindPlaceholder
	}

	switch kind {
	case core.KindPlaceholder:
		return classifyPlaceholder(c)
	case core.KindDoc:
		return classifyDoc(c)
	default:
		return classifyInline(c)
	}
}

// ClassifyAll classifies a batch, preserving order.
func ClassifyAll(cs []core.Comment, cfg *core.RepoConfig) []Candidate {
	out := make([]Candidate, 0, len(cs))
	for _, c := range cs {
		out = append(out, Classify(c, cfg))
	}
	return out
}

func classifyPlaceholder(c core.Comment) Candidate {
	if IsAnchored(c.Text) {
		return Candidate{Comment: c, Criterion: core.CriterionPlaceholder, Verdict: core.VerdictKeep}
	}
	return Candidate{
		Comment:   c,
		Flagged:   true,
		Criterion: core.CriterionPlaceholder,
		Verdict:   core.VerdictEdit,
		Hint:      "placeholder has no issue reference, owner or link; anchor it or drop it",
	}
}

func classifyInline(c core.Comment) Candidate {
	score := NarrationScore(c.Text, c.Code)
	if score >= narrationThreshold {
		return Candidate{
			Comment:   c,
			Flagged:   true,
			Criterion: core.CriterionNarration,
			Verdict:   core.VerdictRemove,
			Hint:      "comment restates the adjacent code instead of adding rationale",
			Score:     score,
		}
	}
	return Candidate{Comment: c, Criterion: core.CriterionNarration, Verdict: core.VerdictKeep, Score: score}
}

func classifyDoc(c core.Comment) Candidate {
	lower := strings.ToLower(c.Text)
	for _, w := range informalWords {
		if containsWord(lower, w) {
			return Candidate{
				Comment:   c,
				Flagged:   true,
				Criterion: core.CriterionAudience,
				Verdict:   core.VerdictEdit,
				Hint:      "doc comment uses an informal register (" + w + "); rewrite for a technical readership",
			}
		}
	}
	if strings.Contains(c.Text, "!") {
		return Candidate{
			Comment:   c,
			Flagged:   true,
			Criterion: core.CriterionAudience,
			Verdict:   core.VerdictEdit,
			Hint:      "doc comment reads like marketing copy; state behavior and constraints instead",
		}
	}
	return Candidate{Comment: c, Criterion: core.CriterionAudience, Verdict: core.VerdictKeep}
}

// BuildHeuristicReport assembles an audit from the heuristic verdicts alone,
// for offline runs where no model is available. Every candidate receives
// exactly one finding.
func BuildHeuristicReport(candidates []Candidate) *core.AuditReport {
	report := &core.AuditReport{}

	flagged := 0
	for _, cand := range candidates {
		c := cand.Comment
		note := cand.Hint
		if note == "" {
			note = "No issues found."
		}
		report.Findings = append(report.Findings, core.Finding{
			FilePath:   c.FilePath,
			StartLine:  c.StartLine,
			LineNumber: c.EndLine,
			Kind:       c.Kind,
			Criterion:  cand.Criterion,
			Verdict:    cand.Verdict,
			Note:       note,
		})
		if cand.Flagged {
			flagged++
		}
	}

	if flagged > 0 {
		report.Outcome = core.OutcomeNeedsEdit
		report.Summary = fmt.Sprintf("Heuristic audit flagged %d of %d touched comments.", flagged, len(candidates))
	} else {
		report.Outcome = core.OutcomeClean
		report.Summary = fmt.Sprintf("Heuristic audit found no issues in %d touched comments.", len(candidates))
	}
	return report
}

// IsAnchored reports whether a placeholder comment points at trackable work.
func IsAnchored(text string) bool {
	return anchorRegex.MatchString(text)
}

// NarrationScore measures how much of a comment merely restates the
// identifiers of the code it annotates. It returns the fraction of the
// comment's content words that also appear in the code's split identifiers;
// 1.0 means every word of the comment is already in the code.
func NarrationScore(comment, code string) float64 {
	words := contentWords(comment)
	if len(words) == 0 || strings.TrimSpace(code) == "" {
		return 0
	}

	idents := identifierWords(code)
	if len(idents) == 0 {
		return 0
	}

	matched := 0
	for w := range words {
		if _, ok := idents[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}

// stopWords are glue words that carry no signal either way.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "to": {}, "of": {}, "and": {}, "or": {},
	"in": {}, "on": {}, "for": {}, "with": {}, "is": {}, "are": {}, "be": {},
	"we": {}, "it": {}, "this": {}, "that": {}, "by": {}, "from": {}, "as": {},
}

// contentWords lowercases and tokenizes comment text, dropping stop words.
func contentWords(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range splitWords(text) {
		tok = strings.ToLower(tok)
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

// identifierWords splits code identifiers on case and underscore boundaries
// so "maxRetryCount" contributes "max", "retry" and "count".
func identifierWords(code string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range splitWords(code) {
		for _, part := range splitIdentifier(tok) {
			part = strings.ToLower(part)
			if len(part) < 2 {
				continue
			}
			out[part] = struct{}{}
		}
	}
	return out
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

func splitIdentifier(ident string) []string {
	var parts []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			parts = append(parts, string(cur))
			cur = nil
		}
	}
	for i, r := range ident {
		switch {
		case r == '_':
			flush()
		case unicode.IsUpper(r):
			// Boundary unless the previous rune was also upper (acronyms).
			if i > 0 && len(cur) > 0 && !unicode.IsUpper(cur[len(cur)-1]) {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return parts
}

func containsWord(haystack, word string) bool {
	idx := 0
	for {
		j := strings.Index(haystack[idx:], word)
		if j < 0 {
			return false
		}
		start := idx + j
		end := start + len(word)
		beforeOK := start == 0 || !isLetterByte(haystack[start-1])
		afterOK := end >= len(haystack) || !isLetterByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isLetterByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
