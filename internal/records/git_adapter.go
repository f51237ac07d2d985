package records

import (
	"context"

	"github.com/gitvault/gitvault/internal/git"
)

// gitAdapter adapts the git.Service to the records.GitService interface.
type gitAdapter struct {
	gitSvc *git.Service
}

// NewGitAdapter creates a new Git adapter.
func NewGitAdapter(gitSvc *git.Service) GitService {
	return &gitAdapter{gitSvc: gitSvc}
}

// CommitPaths stages the given worktree-relative paths and commits them.
func (a *gitAdapter) CommitPaths(ctx context.Context, paths []string, message string, author Author) (string, error) {
	return a.gitSvc.CommitPaths(ctx, paths, message, git.Signature{
		Name:  author.Name,
		Email: author.Email,
	})
}

// ListChangedFiles returns the current change set.
func (a *gitAdapter) ListChangedFiles() ([]string, error) {
	return a.gitSvc.ListChangedFiles()
}
