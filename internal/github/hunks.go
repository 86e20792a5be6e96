package github

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRegex = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// ParseValidLinesFromPatch extracts all new-side line numbers that can carry
// an inline review comment. GitHub only accepts comments on lines present in
// the diff, so findings outside this set get demoted to the review body.
func ParseValidLinesFromPatch(patch string, logger *slog.Logger) map[int]struct{} {
	return parsePatchLines(patch, logger, false)
}

// ParseAddedLinesFromPatch extracts only the line numbers the change added or
// modified. These define which comments count as touched by the change.
func ParseAddedLinesFromPatch(patch string, logger *slog.Logger) map[int]struct{} {
	return parsePatchLines(patch, logger, true)
}

func parsePatchLines(patch string, logger *slog.Logger, addedOnly bool) map[int]struct{} {
	result := make(map[int]struct{})
	lines := strings.Split(patch, "\n")

	currentLine := -1

	for _, line := range lines {
		if strings.HasPrefix(line, "@@") {
			matches := hunkHeaderRegex.FindStringSubmatch(line)
			if len(matches) < 2 {
				// Skip the malformed hunk rather than miscount lines.
				if logger != nil {
					logger.Warn("skipped malformed hunk header", "line", line)
				}
				currentLine = -1
				continue
			}
			start, err := strconv.Atoi(matches[1])
			if err != nil {
				if logger != nil {
					logger.Warn("skipped malformed hunk header", "line", line, "error", err)
				}
				currentLine = -1
				continue
			}
			currentLine = start
			continue
		}

		if currentLine == -1 {
			continue
		}

		// ' ' is context, '+' is added, '-' exists only on the old side and
		// does not advance the new-side counter.
		switch {
		case strings.HasPrefix(line, "+"):
			result[currentLine] = struct{}{}
			currentLine++
		case strings.HasPrefix(line, " "):
			if !addedOnly {
				result[currentLine] = struct{}{}
			}
			currentLine++
		case strings.HasPrefix(line, "-"):
			continue
		case line == "":
			// usually the trailing newline of the patch
			continue
		}
	}

	return result
}
