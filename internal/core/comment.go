// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

// CommentKind classifies a source comment for audit purposes.
type CommentKind string

const (
	// KindInline is a short annotation adjacent to a statement.
	KindInline CommentKind = "inline"
	// KindDoc is a structured comment attached to a declaration.
	KindDoc CommentKind = "doc"
	// KindPlaceholder marks planned future work (TODO, FIXME and friends).
	KindPlaceholder CommentKind = "placeholder"
)

// Comment is a single source-code comment extracted from a changed file.
// StartLine and EndLine are 1-based and refer to the new side of the change.
type Comment struct {
	FilePath  string
	StartLine int
	EndLine   int
	Kind      CommentKind
	Text      string
	// Code carries the nearby source lines the comment annotates, used to
	// judge narration and outdatedness.
	Code string
}

// Span reports whether the comment overlaps the given line on its file.
func (c Comment) Span(line int) bool {
	return line >= c.StartLine && line <= c.EndLine
}
