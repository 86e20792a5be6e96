package comments

import (
	"path/filepath"
	"strings"

	"github.com/sevigo/comment-warden/internal/core"
)

// Touched filters comments down to those whose span intersects the changed
// lines of the new side of a diff. A comment counts as touched when any of
// its lines was added or modified.
func Touched(all []core.Comment, changedLines map[int]struct{}) []core.Comment {
	if len(changedLines) == 0 {
		return nil
	}
	var out []core.Comment
	for _, c := range all {
		for line := c.StartLine; line <= c.EndLine; line++ {
			if _, ok := changedLines[line]; ok {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Excluded reports whether a file should be skipped per repository config.
func Excluded(path string, cfg *core.RepoConfig) bool {
	if cfg == nil {
		return false
	}

	for _, dir := range cfg.ExcludeDirs {
		if dir == "" {
			continue
		}
		for _, part := range strings.Split(filepath.ToSlash(path), "/") {
			if part == dir {
				return true
			}
		}
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range cfg.ExcludeExts {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext && ext != "" {
			return true
		}
	}
	return false
}

// generatedMarkers identify files that should never be audited; editing
// comments in generated code is churn, the generator owns them.
var generatedMarkers = []string{
	"Code generated",
	"DO NOT EDIT",
	"@generated",
}

// IsGenerated reports whether file content carries a generated-code marker
// in its first few lines.
func IsGenerated(content string) bool {
	head := content
	if idx := nthNewline(content, 5); idx >= 0 {
		head = content[:idx]
	}
	for _, m := range generatedMarkers {
		if strings.Contains(head, m) {
			return true
		}
	}
	return false
}

func nthNewline(s string, n int) int {
	idx := 0
	for i := 0; i < n; i++ {
		j := strings.IndexByte(s[idx:], '\n')
		if j < 0 {
			return -1
		}
		idx += j + 1
	}
	return idx - 1
}
