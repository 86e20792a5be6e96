package comments

import (
	"strings"

	"github.com/sevigo/comment-warden/internal/core"
)

// rawComment is an extraction intermediate before kind classification.
type rawComment struct {
	startLine int
	endLine   int
	text      []string
	// trailing is true for a comment sharing its line with code.
	trailing bool
	// docMarked is true when the comment used an explicit doc marker.
	docMarked bool
	// code is the statement a trailing comment annotates.
	code string
}

// Extract scans file content and returns every comment in it. The second
// return value is false when the file type has no known comment syntax.
func Extract(path, content string) ([]core.Comment, bool) {
	lang, ok := LanguageFor(path)
	if !ok {
		return nil, false
	}

	lines := strings.Split(content, "\n")
	var raws []rawComment
	var run *rawComment // current standalone line-comment run
	var block *rawComment

	flushRun := func() {
		if run != nil {
			raws = append(raws, *run)
			run = nil
		}
	}

	for i, line := range lines {
		lineNo := i + 1

		if block != nil {
			if idx := strings.Index(line, lang.blockEnd); idx >= 0 {
				block.text = append(block.text, strings.TrimSpace(line[:idx]))
				block.endLine = lineNo
				raws = append(raws, *block)
				block = nil
			} else {
				block.text = append(block.text, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*")))
			}
			continue
		}

		marker, idx := findMarker(line, lang)
		if idx < 0 {
			flushRun()
			continue
		}

		before := strings.TrimSpace(line[:idx])

		if marker == lang.blockStart && lang.blockStart != "" {
			flushRun()
			rest := line[idx+len(markerPrefix(line[idx:], lang)):]
			doc := lang.docBlockStart != "" && strings.HasPrefix(line[idx:], lang.docBlockStart)
			b := rawComment{startLine: lineNo, endLine: lineNo, trailing: before != "", code: before, docMarked: doc}
			if end := strings.Index(rest, lang.blockEnd); end >= 0 {
				b.text = append(b.text, strings.TrimSpace(rest[:end]))
				raws = append(raws, b)
			} else {
				b.text = append(b.text, strings.TrimSpace(rest))
				block = &b
			}
			continue
		}

		// Line comment. Doc markers are longer, so check them first.
		used := marker
		doc := false
		for _, dm := range lang.docLine {
			if strings.HasPrefix(line[idx:], dm) {
				used = dm
				doc = true
				break
			}
		}
		text := strings.TrimSpace(line[idx+len(used):])

		if before != "" {
			flushRun()
			raws = append(raws, rawComment{
				startLine: lineNo, endLine: lineNo,
				text: []string{text}, trailing: true, code: before, docMarked: doc,
			})
			continue
		}

		if run != nil && run.endLine == lineNo-1 && run.docMarked == doc {
			run.endLine = lineNo
			run.text = append(run.text, text)
		} else {
			flushRun()
			run = &rawComment{startLine: lineNo, endLine: lineNo, text: []string{text}, docMarked: doc}
		}
	}
	flushRun()
	if block != nil {
		// Unterminated block runs to EOF; keep what we saw.
		block.endLine = len(lines)
		raws = append(raws, *block)
	}

	out := make([]core.Comment, 0, len(raws))
	for _, rc := range raws {
		text := strings.TrimSpace(strings.Join(rc.text, "\n"))
		if text == "" {
			continue
		}
		out = append(out, core.Comment{
			FilePath:  path,
			StartLine: rc.startLine,
			EndLine:   rc.endLine,
			Kind:      classifyKind(rc, lang, lines, text),
			Text:      text,
			Code:      codeContext(rc, lines),
		})
	}
	return out, true
}

// defaultPlaceholderMarkers mirrors core.DefaultRepoConfig; kind
// classification at extraction time uses the built-in set, repo-specific
// markers are applied by the checklist.
var defaultPlaceholderMarkers = []string{"TODO", "FIXME", "XXX", "HACK"}

func classifyKind(rc rawComment, lang language, lines []string, text string) core.CommentKind {
	if HasPlaceholderMarker(text, defaultPlaceholderMarkers) {
		return core.KindPlaceholder
	}
	if rc.docMarked {
		return core.KindDoc
	}
	if rc.trailing || lang.decl == nil {
		return core.KindInline
	}

	// Python-style docstrings follow the declaration; everything else
	// documents the declaration below the comment.
	if lang.name == "python" && lang.blockStart == `"""` && rc.startLine >= 2 {
		if lang.decl.MatchString(lines[rc.startLine-2]) {
			return core.KindDoc
		}
	}
	for i := rc.endLine; i < len(lines); i++ {
		next := strings.TrimSpace(lines[i])
		if next == "" {
			break
		}
		if lang.decl.MatchString(lines[i]) {
			return core.KindDoc
		}
		break
	}
	return core.KindInline
}

// codeContext captures the source the comment annotates: the shared line for
// trailing comments, otherwise up to three following code lines.
func codeContext(rc rawComment, lines []string) string {
	if rc.trailing {
		return rc.code
	}
	var ctx []string
	for i := rc.endLine; i < len(lines) && len(ctx) < 3; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			if len(ctx) > 0 {
				break
			}
			continue
		}
		ctx = append(ctx, line)
	}
	return strings.Join(ctx, "\n")
}

// markerPrefix returns the actual delimiter consumed at the match position,
// preferring the doc block form when present.
func markerPrefix(s string, lang language) string {
	if lang.docBlockStart != "" && strings.HasPrefix(s, lang.docBlockStart) {
		return lang.docBlockStart
	}
	return lang.blockStart
}

// findMarker locates the first comment delimiter on a line that is not
// inside a string literal. It returns the matched marker and its index, or
// -1 when the line has no comment.
func findMarker(line string, lang language) (string, int) {
	var inSingle, inDouble, inBacktick bool

	for i := 0; i < len(line); i++ {
		if !inSingle && !inDouble && !inBacktick {
			if lang.blockStart != "" && strings.HasPrefix(line[i:], lang.blockStart) {
				return lang.blockStart, i
			}
			matched := ""
			for _, m := range lang.line {
				if strings.HasPrefix(line[i:], m) && len(m) > len(matched) {
					matched = m
				}
			}
			if matched != "" {
				return matched, i
			}
		}

		switch line[i] {
		case '\\':
			i++ // skip escaped char
		case '\'':
			if !inDouble && !inBacktick {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle && !inBacktick {
				inDouble = !inDouble
			}
		case '`':
			if !inSingle && !inDouble {
				inBacktick = !inBacktick
			}
		}
	}
	return "", -1
}

// HasPlaceholderMarker reports whether the text contains one of the given
// work markers as a standalone word (TODO yes, TODOLIST no).
func HasPlaceholderMarker(text string, markers []string) bool {
	for _, m := range markers {
		idx := 0
		for {
			j := strings.Index(text[idx:], m)
			if j < 0 {
				break
			}
			start := idx + j
			end := start + len(m)
			beforeOK := start == 0 || !isWordChar(text[start-1])
			afterOK := end >= len(text) || !isWordChar(text[end])
			if beforeOK && afterOK {
				return true
			}
			idx = end
		}
	}
	return false
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}
