package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/comment-warden/internal/core"
)

func TestNarrationScore(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		code    string
		wantMin float64
		wantMax float64
	}{
		{
			name:    "pure narration",
			comment: "increment the hit counter",
			code:    "hitCounter.Increment()",
			wantMin: 0.9,
			wantMax: 1.0,
		},
		{
			name:    "rationale shares no identifiers",
			comment: "upstream rejects bursts above 50 rps, so stay below the limit",
			code:    "time.Sleep(backoff)",
			wantMin: 0,
			wantMax: 0.2,
		},
		{
			name:    "partial overlap",
			comment: "reset the retry budget after a success",
			code:    "retryBudget = maxRetryBudget",
			wantMin: 0.3,
			wantMax: 0.7,
		},
		{
			name:    "empty code",
			comment: "anything",
			code:    "",
			wantMin: 0,
			wantMax: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NarrationScore(tt.comment, tt.code)
			assert.GreaterOrEqual(t, got, tt.wantMin)
			assert.LessOrEqual(t, got, tt.wantMax)
		})
	}
}

func TestIsAnchored(t *testing.T) {
	assert.True(t, IsAnchored("TODO(#123): remove after migration"))
	assert.True(t, IsAnchored("FIXME: see PROJ-4512"))
	assert.True(t, IsAnchored("TODO(alice): drop the fallback"))
	assert.True(t, IsAnchored("TODO: tracked in https://github.com/acme/widgets/issues/9"))
	assert.False(t, IsAnchored("TODO: clean this up"))
	assert.False(t, IsAnchored("FIXME later"))
}

func TestClassifyPlaceholder(t *testing.T) {
	cfg := core.DefaultRepoConfig()

	anchored := Classify(core.Comment{
		Kind: core.KindPlaceholder,
		Text: "TODO(#77): inline once the v2 client ships",
	}, cfg)
	assert.False(t, anchored.Flagged)
	assert.Equal(t, core.VerdictKeep, anchored.Verdict)

	stale := Classify(core.Comment{
		Kind: core.KindPlaceholder,
		Text: "TODO: make this better",
	}, cfg)
	assert.True(t, stale.Flagged)
	assert.Equal(t, core.CriterionPlaceholder, stale.Criterion)
	assert.Equal(t, core.VerdictEdit, stale.Verdict)
}

func TestClassifyInlineNarration(t *testing.T) {
	cfg := core.DefaultRepoConfig()

	narrating := Classify(core.Comment{
		Kind: core.KindInline,
		Text: "close the response body",
		Code: "resp.Body.Close()",
	}, cfg)
	assert.True(t, narrating.Flagged)
	assert.Equal(t, core.CriterionNarration, narrating.Criterion)
	assert.Equal(t, core.VerdictRemove, narrating.Verdict)

	rationale := Classify(core.Comment{
		Kind: core.KindInline,
		Text: "the kernel delivers SIGPIPE before the error surfaces here",
		Code: "resp.Body.Close()",
	}, cfg)
	assert.False(t, rationale.Flagged)
	assert.Equal(t, core.VerdictKeep, rationale.Verdict)
}

func TestClassifyDocAudience(t *testing.T) {
	cfg := core.DefaultRepoConfig()

	informal := Classify(core.Comment{
		Kind: core.KindDoc,
		Text: "Simply call this and the magic happens.",
	}, cfg)
	assert.True(t, informal.Flagged)
	assert.Equal(t, core.CriterionAudience, informal.Criterion)

	technical := Classify(core.Comment{
		Kind: core.KindDoc,
		Text: "Flush writes buffered frames to the socket; it blocks until the kernel accepts them or ctx is done.",
	}, cfg)
	assert.False(t, technical.Flagged)
	assert.Equal(t, core.VerdictKeep, technical.Verdict)
}

func TestClassifyReclassifiesCustomMarkers(t *testing.T) {
	cfg := core.DefaultRepoConfig()
	cfg.PlaceholderMarkers = append(cfg.PlaceholderMarkers, "LATER")

	cand := Classify(core.Comment{
		Kind: core.KindInline,
		Text: "LATER: fold into the batch writer",
	}, cfg)
	assert.Equal(t, core.CriterionPlaceholder, cand.Criterion)
	assert.True(t, cand.Flagged)
}

func TestClassifyAllPreservesOrder(t *testing.T) {
	cfg := core.DefaultRepoConfig()
	in := []core.Comment{
		{Kind: core.KindInline, Text: "close the file", Code: "f.Close()"},
		{Kind: core.KindDoc, Text: "Reader streams rows from the WAL segment."},
	}
	got := ClassifyAll(in, cfg)
	require.Len(t, got, 2)
	assert.Equal(t, core.CriterionNarration, got[0].Criterion)
	assert.Equal(t, core.CriterionAudience, got[1].Criterion)
}
