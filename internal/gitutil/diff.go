package gitutil

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// FilePatch pairs a repo-relative path with its unified diff text.
type FilePatch struct {
	Path  string
	Patch string
}

// ResolveRevision resolves a branch name, tag or SHA prefix to a full SHA.
func (c *Client) ResolveRevision(repo *git.Repository, rev string) (string, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision %q: %w", rev, err)
	}
	return hash.String(), nil
}

// ChangedPatches diffs two commits and returns a unified patch per added or
// modified file. Deleted files are skipped; their comments no longer exist on
// the new side and cannot be audited.
func (c *Client) ChangedPatches(repo *git.Repository, oldSHA, newSHA string) ([]FilePatch, error) {
	oldTree, err := commitTree(repo, oldSHA)
	if err != nil {
		return nil, err
	}
	newTree, err := commitTree(repo, newSHA)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(oldTree, newTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees between %s and %s: %w", oldSHA, newSHA, err)
	}

	var patches []FilePatch
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			c.Logger.Error("failed to get action for change, skipping", "error", err)
			continue
		}
		if action == merkletrie.Delete {
			continue
		}

		patch, err := change.Patch()
		if err != nil {
			c.Logger.Error("failed to build patch for change, skipping", "file", change.To.Name, "error", err)
			continue
		}
		patches = append(patches, FilePatch{
			Path:  change.To.Name,
			Patch: patch.String(),
		})
	}
	return patches, nil
}

func commitTree(repo *git.Repository, sha string) (*object.Tree, error) {
	commit, err := repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for %s: %w", sha, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree for commit %s: %w", sha, err)
	}
	return tree, nil
}
