package comments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/comment-warden/internal/core"
)

func TestExtractGo(t *testing.T) {
	src := `package cache

// Cache is a bounded LRU keyed by request digest.
type Cache struct {
	mu sync.Mutex
}

func (c *Cache) Get(key string) (string, bool) {
	// increment the counter
	c.hits++

	url := "http://example.com" // default endpoint until config loads

	// TODO(#412): evict before insert once the size histogram lands
	return c.lookup(key)
}
`
	got, ok := Extract("internal/cache/cache.go", src)
	require.True(t, ok)
	require.Len(t, got, 4)

	doc := got[0]
	assert.Equal(t, core.KindDoc, doc.Kind)
	assert.Equal(t, 3, doc.StartLine)
	assert.Equal(t, "Cache is a bounded LRU keyed by request digest.", doc.Text)
	assert.Contains(t, doc.Code, "type Cache struct")

	inline := got[1]
	assert.Equal(t, core.KindInline, inline.Kind)
	assert.Equal(t, 9, inline.StartLine)
	assert.Equal(t, "increment the counter", inline.Text)
	assert.Contains(t, inline.Code, "c.hits++")

	trailing := got[2]
	assert.Equal(t, core.KindInline, trailing.Kind)
	assert.Equal(t, 12, trailing.StartLine)
	assert.Equal(t, "default endpoint until config loads", trailing.Text)
	assert.Contains(t, trailing.Code, `url := "http://example.com"`)

	todo := got[3]
	assert.Equal(t, core.KindPlaceholder, todo.Kind)
	assert.Equal(t, 14, todo.StartLine)
}

func TestExtractMergesLineCommentRuns(t *testing.T) {
	src := `// The retry budget is shared across all shards because the upstream
// rate limiter counts the whole cluster as one client.
const retryBudget = 12
`
	got, ok := Extract("limits.go", src)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].StartLine)
	assert.Equal(t, 2, got[0].EndLine)
	assert.Equal(t, core.KindDoc, got[0].Kind)
	assert.Contains(t, got[0].Text, "rate limiter counts the whole cluster")
}

func TestExtractBlockComments(t *testing.T) {
	src := `int main(void) {
	/* legacy entry point,
	   kept for the embedded build */
	return run();
}
`
	got, ok := Extract("main.c", src)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].StartLine)
	assert.Equal(t, 3, got[0].EndLine)
	assert.Contains(t, got[0].Text, "legacy entry point")
	assert.Contains(t, got[0].Text, "kept for the embedded build")
}

func TestExtractDocBlockAndDocLine(t *testing.T) {
	src := `/** Parses a widget spec into its AST. */
export function parseWidget(input) {
	return ast;
}
`
	got, ok := Extract("parser.js", src)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, core.KindDoc, got[0].Kind)

	rust := `/// Returns the canonical form of the path.
pub fn canonicalize(p: &Path) -> PathBuf {
}
`
	got, ok = Extract("path.rs", rust)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, core.KindDoc, got[0].Kind)
	assert.Equal(t, "Returns the canonical form of the path.", got[0].Text)
}

func TestExtractPythonDocstring(t *testing.T) {
	src := `def normalize(rows):
    """Collapses duplicate rows keeping the newest timestamp."""
    seen = {}
    # the input is already sorted by ts descending
    return list(seen.values())
`
	got, ok := Extract("normalize.py", src)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, core.KindDoc, got[0].Kind)
	assert.Contains(t, got[0].Text, "Collapses duplicate rows")
	assert.Equal(t, core.KindInline, got[1].Kind)
	assert.Equal(t, 4, got[1].StartLine)
}

func TestExtractIgnoresMarkersInStrings(t *testing.T) {
	src := `re := regexp.MustCompile("https?://")
s := 'a // b'
`
	got, ok := Extract("util.go", src)
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestExtractUnsupportedFile(t *testing.T) {
	_, ok := Extract("logo.png", "\x89PNG")
	assert.False(t, ok)

	_, ok = Extract("README.md", "# hello")
	assert.False(t, ok)
}

func TestTouched(t *testing.T) {
	all := []core.Comment{
		{FilePath: "a.go", StartLine: 3, EndLine: 4},
		{FilePath: "a.go", StartLine: 10, EndLine: 10},
		{FilePath: "a.go", StartLine: 20, EndLine: 25},
	}
	changed := map[int]struct{}{4: {}, 22: {}}

	got := Touched(all, changed)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].StartLine)
	assert.Equal(t, 20, got[1].StartLine)

	assert.Nil(t, Touched(all, nil))
}

func TestExcluded(t *testing.T) {
	cfg := &core.RepoConfig{
		ExcludeDirs: []string{"vendor", "dist"},
		ExcludeExts: []string{".sql", "yml"},
	}

	assert.True(t, Excluded("vendor/lib/x.go", cfg))
	assert.True(t, Excluded("pkg/dist/bundle.js", cfg))
	assert.True(t, Excluded("migrations/0001_init.sql", cfg))
	assert.True(t, Excluded("deploy/app.yml", cfg))
	assert.False(t, Excluded("internal/server/server.go", cfg))
	assert.False(t, Excluded("distance.go", cfg))
}

func TestIsGenerated(t *testing.T) {
	assert.True(t, IsGenerated("// Code generated by protoc-gen-go. DO NOT EDIT.\npackage pb\n"))
	assert.True(t, IsGenerated("# @generated\nx = 1\n"))
	assert.False(t, IsGenerated("package server\n\n// NewServer builds the router.\n"))
}

func TestHasPlaceholderMarker(t *testing.T) {
	markers := []string{"TODO", "FIXME"}
	assert.True(t, HasPlaceholderMarker("TODO: wire the cache", markers))
	assert.True(t, HasPlaceholderMarker("needs a fix, FIXME", markers))
	assert.False(t, HasPlaceholderMarker("add this to the TODOLIST", markers))
	assert.False(t, HasPlaceholderMarker("method todos are lowercase", markers))
}
