package core

import (
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIssueCommentEvent(body string) *github.IssueCommentEvent {
	return &github.IssueCommentEvent{
		Issue: &github.Issue{
			Number:           github.Ptr(42),
			Title:            github.Ptr("Add retry logic"),
			Body:             github.Ptr("retries with backoff"),
			PullRequestLinks: &github.PullRequestLinks{URL: github.Ptr("https://api.github.com/repos/acme/widgets/pulls/42")},
		},
		Comment: &github.IssueComment{
			Body: github.Ptr(body),
			User: &github.User{Login: github.Ptr("octocat")},
		},
		Repo: &github.Repository{
			Owner:    &github.User{Login: github.Ptr("acme")},
			Name:     github.Ptr("widgets"),
			FullName: github.Ptr("acme/widgets"),
			CloneURL: github.Ptr("https://github.com/acme/widgets.git"),
			Language: github.Ptr("Go"),
		},
		Installation: &github.Installation{ID: github.Ptr(int64(7))},
	}
}

func TestEventFromIssueComment(t *testing.T) {
	t.Run("accepts /audit command", func(t *testing.T) {
		ev, err := EventFromIssueComment(validIssueCommentEvent("/audit"))
		require.NoError(t, err)
		assert.Equal(t, CommandAudit, ev.Type)
		assert.Equal(t, "acme", ev.RepoOwner)
		assert.Equal(t, "widgets", ev.RepoName)
		assert.Equal(t, 42, ev.PRNumber)
		assert.Equal(t, "octocat", ev.Sender)
		assert.Equal(t, int64(7), ev.InstallationID)
	})

	t.Run("command is case-insensitive and trimmed", func(t *testing.T) {
		_, err := EventFromIssueComment(validIssueCommentEvent("  /AUDIT  "))
		assert.NoError(t, err)
	})

	t.Run("rejects other comments", func(t *testing.T) {
		_, err := EventFromIssueComment(validIssueCommentEvent("looks good to me"))
		assert.Error(t, err)
	})

	t.Run("rejects comments outside pull requests", func(t *testing.T) {
		ev := validIssueCommentEvent("/audit")
		ev.Issue.PullRequestLinks = nil
		_, err := EventFromIssueComment(ev)
		assert.Error(t, err)
	})

	t.Run("rejects missing installation", func(t *testing.T) {
		ev := validIssueCommentEvent("/audit")
		ev.Installation = nil
		_, err := EventFromIssueComment(ev)
		assert.Error(t, err)
	})
}

func validPullRequestEvent(action string) *github.PullRequestEvent {
	return &github.PullRequestEvent{
		Action: github.Ptr(action),
		PullRequest: &github.PullRequest{
			Number: github.Ptr(11),
			Title:  github.Ptr("Refactor parser"),
			Body:   github.Ptr(""),
			Draft:  github.Ptr(false),
			Head:   &github.PullRequestBranch{SHA: github.Ptr("abc123def456")},
		},
		Repo: &github.Repository{
			Owner:    &github.User{Login: github.Ptr("acme")},
			Name:     github.Ptr("widgets"),
			FullName: github.Ptr("acme/widgets"),
			CloneURL: github.Ptr("https://github.com/acme/widgets.git"),
			Language: github.Ptr("Go"),
		},
		Sender:       &github.User{Login: github.Ptr("octocat")},
		Installation: &github.Installation{ID: github.Ptr(int64(7))},
	}
}

func TestEventFromPullRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*github.PullRequestEvent)
		wantErr bool
	}{
		{name: "opened triggers audit", mutate: func(*github.PullRequestEvent) {}},
		{name: "synchronize triggers audit", mutate: func(e *github.PullRequestEvent) { e.Action = github.Ptr("synchronize") }},
		{name: "closed is ignored", mutate: func(e *github.PullRequestEvent) { e.Action = github.Ptr("closed") }, wantErr: true},
		{name: "draft is ignored", mutate: func(e *github.PullRequestEvent) { e.PullRequest.Draft = github.Ptr(true) }, wantErr: true},
		{name: "missing installation", mutate: func(e *github.PullRequestEvent) { e.Installation = nil }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validPullRequestEvent("opened")
			tt.mutate(raw)
			ev, err := EventFromPullRequest(raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, PullRequestAudit, ev.Type)
			assert.Equal(t, "abc123def456", ev.HeadSHA)
			assert.Equal(t, 11, ev.PRNumber)
		})
	}
}

func TestAuditReportActionableFindings(t *testing.T) {
	report := &AuditReport{
		Findings: []Finding{
			{FilePath: "a.go", LineNumber: 1, Verdict: VerdictKeep},
			{FilePath: "a.go", LineNumber: 5, Verdict: VerdictEdit},
			{FilePath: "b.go", LineNumber: 9, Verdict: VerdictRemove},
		},
	}
	actionable := report.ActionableFindings()
	require.Len(t, actionable, 2)
	assert.Equal(t, VerdictEdit, actionable[0].Verdict)
	assert.Equal(t, VerdictRemove, actionable[1].Verdict)
}
