package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/sevigo/comment-warden/internal/app"
	"github.com/sevigo/comment-warden/internal/wire"
)

func initializeAppCmd() tea.Cmd {
	return func() tea.Msg {
		application, _, err := wire.InitializeApp(context.Background())
		if err != nil {
			return appInitializedMsg{err: err}
		}
		return appInitializedMsg{app: application}
	}
}

func loadAuditsCmd(application *app.App, repoFullName string, limit int) tea.Cmd {
	return func() tea.Msg {
		audits, err := application.Store.ListAuditsForRepo(context.Background(), repoFullName, limit)
		return auditsLoadedMsg{repoFullName: repoFullName, audits: audits, err: err}
	}
}

// showAuditCmd fetches the latest stored audit for a pull request and renders
// its markdown report for the viewport.
func showAuditCmd(application *app.App, repoFullName string, prNumber, width int) tea.Cmd {
	return func() tea.Msg {
		audit, err := application.Store.GetLatestAuditForPR(context.Background(), repoFullName, prNumber)
		if err != nil {
			return reportRenderedMsg{prNumber: prNumber, err: err}
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return reportRenderedMsg{prNumber: prNumber, err: fmt.Errorf("failed to build markdown renderer: %w", err)}
		}

		header := fmt.Sprintf("# Audit %s#%d\n\nOutcome: **%s** | Findings: %d | Head: `%s`\n\n---\n\n",
			audit.RepoFullName, audit.PRNumber, audit.Outcome, audit.FindingsCount, truncateSHA(audit.HeadSHA))
		rendered, err := renderer.Render(header + audit.ReportContent)
		if err != nil {
			return reportRenderedMsg{prNumber: prNumber, err: fmt.Errorf("failed to render report: %w", err)}
		}
		return reportRenderedMsg{prNumber: prNumber, content: rendered}
	}
}

func truncateSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
