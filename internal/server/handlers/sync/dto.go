package sync

import (
	"time"

	"github.com/gitvault/gitvault/internal/git"
	"github.com/gitvault/gitvault/internal/status"
)

// CredentialsRequest carries the session credentials for git transport
// auth. They are held in memory only, never persisted.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

// RunResponse is the terminal state of one synchronization run.
type RunResponse struct {
	Outcome git.Outcome     `json:"outcome"`
	Status  status.Snapshot `json:"status"`
}

// HistoryEntryResponse is one journaled synchronization run.
type HistoryEntryResponse struct {
	ID         string          `json:"id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Outcome    git.Outcome     `json:"outcome"`
	Status     status.Snapshot `json:"status"`
	Error      string          `json:"error,omitempty"`
}

// CommitsResponse lists messages of commits not yet on the remote.
type CommitsResponse struct {
	Messages []string `json:"messages"`
}

// ChangesResponse lists worktree paths differing from HEAD.
type ChangesResponse struct {
	Paths []string `json:"paths"`
}
