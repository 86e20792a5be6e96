package main

import (
	"github.com/sevigo/comment-warden/internal/app"
	"github.com/sevigo/comment-warden/internal/core"
)

// Indicates that the core application services have been initialized.
type appInitializedMsg struct {
	app *app.App
	err error
}

// Indicates that the audit history of a repository has been loaded.
type auditsLoadedMsg struct {
	repoFullName string
	audits       []core.Audit
	err          error
}

// Carries a stored audit report rendered for terminal display.
type reportRenderedMsg struct {
	prNumber int
	content  string
	err      error
}

// A generic error message for reporting failures from commands.
type errorMsg struct{ err error }

func (e errorMsg) Error() string {
	return e.err.Error()
}
