// Package storage persists audit records.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	// postgres driver
	_ "github.com/lib/pq"

	"github.com/sevigo/comment-warden/internal/core"
)

// ErrNotFound is returned when no audit matches the query.
var ErrNotFound = errors.New("audit not found")

// Store defines the persistence operations for audit records.
type Store interface {
	SaveAudit(ctx context.Context, audit *core.Audit) error
	GetLatestAuditForPR(ctx context.Context, repoFullName string, prNumber int) (*core.Audit, error)
	ListAuditsForRepo(ctx context.Context, repoFullName string, limit int) ([]core.Audit, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a Store backed by PostgreSQL.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// SaveAudit inserts a new audit record, assigning a UID and timestamp if the
// caller left them empty.
func (s *postgresStore) SaveAudit(ctx context.Context, audit *core.Audit) error {
	if audit.AuditUID == "" {
		audit.AuditUID = uuid.NewString()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}

	query := `INSERT INTO audits (audit_uid, repo_full_name, pr_number, head_sha, outcome, findings_count, report_content, created_at)
		VALUES (:audit_uid, :repo_full_name, :pr_number, :head_sha, :outcome, :findings_count, :report_content, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, query, audit); err != nil {
		return fmt.Errorf("failed to save audit for %s#%d: %w", audit.RepoFullName, audit.PRNumber, err)
	}
	return nil
}

// GetLatestAuditForPR retrieves the most recent audit for a pull request.
func (s *postgresStore) GetLatestAuditForPR(ctx context.Context, repoFullName string, prNumber int) (*core.Audit, error) {
	query := `
		SELECT id, audit_uid, repo_full_name, pr_number, head_sha, outcome, findings_count, report_content, created_at
		FROM audits
		WHERE repo_full_name = $1 AND pr_number = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var a core.Audit
	if err := s.db.GetContext(ctx, &a, query, repoFullName, prNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s#%d", ErrNotFound, repoFullName, prNumber)
		}
		return nil, err
	}
	return &a, nil
}

// ListAuditsForRepo returns the newest audits of a repository, newest first.
func (s *postgresStore) ListAuditsForRepo(ctx context.Context, repoFullName string, limit int) ([]core.Audit, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, audit_uid, repo_full_name, pr_number, head_sha, outcome, findings_count, report_content, created_at
		FROM audits
		WHERE repo_full_name = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var audits []core.Audit
	if err := s.db.SelectContext(ctx, &audits, query, repoFullName, limit); err != nil {
		return nil, fmt.Errorf("failed to list audits for %s: %w", repoFullName, err)
	}
	return audits, nil
}
