package github_test

import (
	"context"
	"testing"

	gh "github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/comment-warden/internal/core"
	ghapi "github.com/sevigo/comment-warden/internal/github"
	"github.com/sevigo/comment-warden/mocks"
)

func testEvent() *core.GitHubEvent {
	return &core.GitHubEvent{
		RepoOwner:    "acme",
		RepoName:     "widgets",
		RepoFullName: "acme/widgets",
		PRNumber:     7,
		HeadSHA:      "abc123",
	}
}

func TestInProgressReturnsCheckRunID(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().
		CreateCheckRun(gomock.Any(), "acme", "widgets", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, opts gh.CreateCheckRunOptions) (*gh.CheckRun, error) {
			assert.Equal(t, "Comment-Warden Audit", opts.Name)
			assert.Equal(t, "abc123", opts.HeadSHA)
			assert.Equal(t, "in_progress", opts.GetStatus())
			return &gh.CheckRun{ID: gh.Ptr(int64(99))}, nil
		})

	updater := ghapi.NewStatusUpdater(client)
	id, err := updater.InProgress(context.Background(), testEvent(), "Comment Audit", "working")
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)
}

func TestCompletedSetsConclusion(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().
		UpdateCheckRun(gomock.Any(), "acme", "widgets", int64(99), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ int64, opts gh.UpdateCheckRunOptions) (*gh.CheckRun, error) {
			assert.Equal(t, "completed", opts.GetStatus())
			assert.Equal(t, "neutral", opts.GetConclusion())
			return &gh.CheckRun{}, nil
		})

	updater := ghapi.NewStatusUpdater(client)
	err := updater.Completed(context.Background(), testEvent(), 99, "neutral", "Comment Edits Suggested", "2 of 3")
	require.NoError(t, err)
}

func TestPostAuditReviewSplitsInlineAndOffDiff(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	report := &core.AuditReport{
		Summary: "Two comments need attention.",
		Outcome: core.OutcomeNeedsEdit,
		Findings: []core.Finding{
			{FilePath: "pkg/a.go", StartLine: 10, LineNumber: 11, Verdict: core.VerdictRemove, Criterion: core.CriterionNarration, Note: "Narrates the call below."},
			{FilePath: "pkg/b.go", LineNumber: 40, Verdict: core.VerdictEdit, Criterion: core.CriterionAudience, Note: "Too informal."},
			{FilePath: "pkg/a.go", LineNumber: 12, Verdict: core.VerdictKeep, Criterion: core.CriterionNarration, Note: "No issues found."},
		},
	}
	validLines := map[string]map[int]struct{}{
		"pkg/a.go": {10: {}, 11: {}, 12: {}},
	}

	client.EXPECT().
		CreateReview(gomock.Any(), "acme", "widgets", 7, "abc123", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ int, _, body string, comments []ghapi.DraftReviewComment) error {
			// The finding in pkg/b.go is outside the diff and moves to the body.
			require.Len(t, comments, 1)
			assert.Equal(t, "pkg/a.go", comments[0].Path)
			assert.Equal(t, 10, comments[0].StartLine)
			assert.Equal(t, 11, comments[0].Line)
			assert.Contains(t, body, "Findings outside the diff")
			assert.Contains(t, body, "pkg/b.go:40")
			return nil
		})

	updater := ghapi.NewStatusUpdater(client)
	err := updater.PostAuditReview(context.Background(), testEvent(), report, validLines)
	require.NoError(t, err)
}
