package comments

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/comment-warden/internal/core"
)

// collectConcurrency bounds parallel file reads during collection.
const collectConcurrency = 4

// ChangedFile pairs a repo-relative path with the new-side line numbers the
// change added or modified, as parsed from its patch.
type ChangedFile struct {
	Path       string
	AddedLines map[int]struct{}
}

// Collector reads changed files from a checked-out worktree and extracts the
// comments the change touched.
type Collector struct {
	maxFileSize int64
	logger      *slog.Logger
}

// NewCollector creates a Collector. maxFileSize <= 0 disables the size cap.
func NewCollector(maxFileSize int64, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{maxFileSize: maxFileSize, logger: logger}
}

// CollectTouched walks the changed files of a checkout and returns every
// comment whose span intersects the changed lines, ordered file by file.
// Files excluded by repo config, unsupported, oversized or generated are
// skipped with a debug log, never an error; a missing file (deleted in the
// change) is skipped the same way.
func (c *Collector) CollectTouched(repoPath string, files []ChangedFile, cfg *core.RepoConfig) ([]core.Comment, error) {
	if repoPath == "" {
		return nil, fmt.Errorf("repo path cannot be empty")
	}

	perFile := make([][]core.Comment, len(files))
	var g errgroup.Group
	g.SetLimit(collectConcurrency)

	for i, f := range files {
		g.Go(func() error {
			comments, err := c.collectFile(repoPath, f, cfg)
			if err != nil {
				return err
			}
			perFile[i] = comments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []core.Comment
	for _, comments := range perFile {
		out = append(out, comments...)
	}
	return out, nil
}

func (c *Collector) collectFile(repoPath string, f ChangedFile, cfg *core.RepoConfig) ([]core.Comment, error) {
	if len(f.AddedLines) == 0 {
		return nil, nil
	}
	if Excluded(f.Path, cfg) {
		c.logger.Debug("skipping excluded file", "file", f.Path)
		return nil, nil
	}
	if _, ok := LanguageFor(f.Path); !ok {
		c.logger.Debug("skipping file with no comment syntax", "file", f.Path)
		return nil, nil
	}

	fullPath := filepath.Join(repoPath, filepath.FromSlash(f.Path))
	info, err := os.Stat(fullPath)
	if err != nil {
		c.logger.Debug("skipping unreadable file", "file", f.Path, "error", err)
		return nil, nil
	}
	if c.maxFileSize > 0 && info.Size() > c.maxFileSize {
		c.logger.Debug("skipping oversized file", "file", f.Path, "size", info.Size())
		return nil, nil
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read changed file %s: %w", f.Path, err)
	}
	content := string(data)
	if IsGenerated(content) {
		c.logger.Debug("skipping generated file", "file", f.Path)
		return nil, nil
	}

	all, ok := Extract(f.Path, content)
	if !ok {
		return nil, nil
	}
	return Touched(all, f.AddedLines), nil
}
