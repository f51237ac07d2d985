package journal

import (
	"context"
	"time"

	"github.com/gitvault/gitvault/internal/git"
	"github.com/gitvault/gitvault/internal/status"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	entries *Repository

	logger *zap.Logger
}

func NewService(entries *Repository, logger *zap.Logger) *Service {
	return &Service{
		entries: entries,
		logger:  logger,
	}
}

// RecordRun journals one finished synchronization run. Failing to journal
// is logged but never fails the run itself.
func (s *Service) RecordRun(ctx context.Context, startedAt time.Time, outcome git.Outcome, snapshot status.Snapshot, runErr error) *Entry {
	entry := &Entry{
		ID:         uuid.New(),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Outcome:    outcome,
		Snapshot:   snapshot,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}

	if err := s.entries.Append(ctx, entry); err != nil {
		s.logger.Error("failed to journal synchronization run", zap.Error(err))
	}

	return entry
}

// History returns recent runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*Entry, error) {
	return s.entries.List(ctx, limit)
}
