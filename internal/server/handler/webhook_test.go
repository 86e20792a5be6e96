package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/comment-warden/internal/config"
	"github.com/sevigo/comment-warden/internal/core"
)

const testSecret = "webhook-secret"

type fakeDispatcher struct {
	dispatched []*core.GitHubEvent
	err        error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, event *core.GitHubEvent) error {
	if f.err != nil {
		return f.err
	}
	f.dispatched = append(f.dispatched, event)
	return nil
}

func (f *fakeDispatcher) Stop() {}

func newSignedRequest(t *testing.T, eventType string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)

	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	req.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func newHandler(d core.JobDispatcher) *WebhookHandler {
	cfg := &config.Config{}
	cfg.GitHub.WebhookSecret = testSecret
	return NewWebhookHandler(cfg, d, slog.Default())
}

func TestHandleRejectsBadSignature(t *testing.T) {
	h := newHandler(&fakeDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/github", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "pull_request")
	req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")

	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleDispatchesPullRequest(t *testing.T) {
	d := &fakeDispatcher{}
	h := newHandler(d)

	body := []byte(`{
		"action": "opened",
		"pull_request": {
			"number": 7,
			"title": "tidy comments",
			"draft": false,
			"head": {"sha": "abc123"}
		},
		"repository": {
			"name": "widgets",
			"full_name": "acme/widgets",
			"clone_url": "https://github.com/acme/widgets.git",
			"owner": {"login": "acme"}
		},
		"installation": {"id": 42},
		"sender": {"login": "octocat"}
	}`)

	rec := httptest.NewRecorder()
	h.Handle(rec, newSignedRequest(t, "pull_request", body))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	if assert.Len(t, d.dispatched, 1) {
		assert.Equal(t, core.PullRequestAudit, d.dispatched[0].Type)
		assert.Equal(t, 7, d.dispatched[0].PRNumber)
		assert.Equal(t, "abc123", d.dispatched[0].HeadSHA)
	}
}

func TestHandleIgnoresDraftPullRequest(t *testing.T) {
	d := &fakeDispatcher{}
	h := newHandler(d)

	body := []byte(`{
		"action": "opened",
		"pull_request": {"number": 7, "draft": true, "head": {"sha": "abc"}},
		"repository": {"name": "widgets", "full_name": "acme/widgets", "owner": {"login": "acme"}},
		"installation": {"id": 42}
	}`)

	rec := httptest.NewRecorder()
	h.Handle(rec, newSignedRequest(t, "pull_request", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, d.dispatched)
}

func TestHandleDispatchesAuditCommand(t *testing.T) {
	d := &fakeDispatcher{}
	h := newHandler(d)

	body := []byte(`{
		"action": "created",
		"issue": {
			"number": 3,
			"title": "tidy comments",
			"pull_request": {"url": "https://api.github.com/repos/acme/widgets/pulls/3"}
		},
		"comment": {"body": "/audit", "user": {"login": "octocat"}},
		"repository": {"name": "widgets", "full_name": "acme/widgets", "owner": {"login": "acme"}},
		"installation": {"id": 42}
	}`)

	rec := httptest.NewRecorder()
	h.Handle(rec, newSignedRequest(t, "issue_comment", body))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	if assert.Len(t, d.dispatched, 1) {
		assert.Equal(t, core.CommandAudit, d.dispatched[0].Type)
	}
}

func TestHandleFullQueueReturnsServiceUnavailable(t *testing.T) {
	d := &fakeDispatcher{err: assert.AnError}
	h := newHandler(d)

	body := []byte(`{
		"action": "opened",
		"pull_request": {"number": 7, "draft": false, "head": {"sha": "abc"}},
		"repository": {"name": "widgets", "full_name": "acme/widgets", "clone_url": "https://x.git", "owner": {"login": "acme"}},
		"installation": {"id": 42}
	}`)

	rec := httptest.NewRecorder()
	h.Handle(rec, newSignedRequest(t, "pull_request", body))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
