// Package comments extracts source-code comments from changed files and
// narrows them to the lines touched by a pending change.
package comments

import (
	"path/filepath"
	"regexp"
	"strings"
)

// language describes how comments are written in one source language.
type language struct {
	name string
	// line comment markers, longest first.
	line []string
	// docLine markers introduce documentation line comments (///, //!).
	docLine []string
	// block comment delimiters; empty when the language has none.
	blockStart string
	blockEnd   string
	// docBlockStart marks a documentation block (/**). Must be a prefix
	// extension of blockStart.
	docBlockStart string
	// decl matches declaration lines; a comment block directly above a
	// declaration is treated as a doc comment even without doc markers.
	decl *regexp.Regexp
}

var (
	goDecl     = regexp.MustCompile(`^\s*(func|type|const|var|package)\b`)
	cDecl      = regexp.MustCompile(`^\s*(public|private|protected|static|class|struct|enum|interface|void|int|export|function|const|let|var|async|def|type)\b`)
	rustDecl   = regexp.MustCompile(`^\s*(pub\s+)?(fn|struct|enum|trait|impl|mod|const|static|type)\b`)
	pyDecl     = regexp.MustCompile(`^\s*(def|class)\b`)
	rubyDecl   = regexp.MustCompile(`^\s*(def|class|module)\b`)
	scriptDecl = regexp.MustCompile(`^\s*(function|\w+\s*\(\s*\))`)
)

var cFamily = language{
	name:          "c-family",
	line:          []string{"//"},
	docLine:       []string{"///"},
	blockStart:    "/*",
	blockEnd:      "*/",
	docBlockStart: "/**",
	decl:          cDecl,
}

var languages = map[string]language{
	".go": {
		name:       "go",
		line:       []string{"//"},
		blockStart: "/*",
		blockEnd:   "*/",
		decl:       goDecl,
	},
	".rs": {
		name:          "rust",
		line:          []string{"//"},
		docLine:       []string{"///", "//!"},
		blockStart:    "/*",
		blockEnd:      "*/",
		docBlockStart: "/**",
		decl:          rustDecl,
	},
	".py": {
		name:       "python",
		line:       []string{"#"},
		blockStart: `"""`,
		blockEnd:   `"""`,
		decl:       pyDecl,
	},
	".rb": {
		name: "ruby",
		line: []string{"#"},
		decl: rubyDecl,
	},
	".sh": {
		name: "shell",
		line: []string{"#"},
		decl: scriptDecl,
	},
	".sql": {
		name:       "sql",
		line:       []string{"--"},
		blockStart: "/*",
		blockEnd:   "*/",
	},
	".yml":  {name: "yaml", line: []string{"#"}},
	".yaml": {name: "yaml", line: []string{"#"}},
	".tf":   {name: "terraform", line: []string{"#", "//"}, blockStart: "/*", blockEnd: "*/"},
}

func init() {
	for _, ext := range []string{".c", ".h", ".cpp", ".cc", ".hpp", ".java", ".js", ".jsx", ".ts", ".tsx", ".cs", ".kt", ".swift", ".scala", ".proto"} {
		languages[ext] = cFamily
	}
}

// LanguageFor returns the comment syntax for a file path, or false when the
// file type is not auditable (binaries, data files, markdown prose).
func LanguageFor(path string) (language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := languages[ext]
	return lang, ok
}
