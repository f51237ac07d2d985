package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitvault/gitvault/internal/git"
	"github.com/gitvault/gitvault/internal/status"
	"github.com/gitvault/gitvault/pkg/badgerfx"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()

	opts := badgerfx.Config{InMemory: true}.Build().WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))
	service := NewService(repo, zaptest.NewLogger(t))

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	outcomes := []git.Outcome{git.OutcomeOffline, git.OutcomeNeedsPassword, git.OutcomeUpdated}
	for i, outcome := range outcomes {
		entry := service.RecordRun(ctx, base.Add(time.Duration(i)*time.Minute), outcome, status.Snapshot{}, nil)
		if entry.ID == uuid.Nil {
			t.Fatal("expected entry to be assigned an ID")
		}
	}

	entries, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Newest first.
	if entries[0].Outcome != git.OutcomeUpdated {
		t.Errorf("expected newest entry first, got %s", entries[0].Outcome)
	}
	if entries[2].Outcome != git.OutcomeOffline {
		t.Errorf("expected oldest entry last, got %s", entries[2].Outcome)
	}
}

func TestRepository_ListLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))
	service := NewService(repo, zaptest.NewLogger(t))

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		service.RecordRun(ctx, base.Add(time.Duration(i)*time.Minute), git.OutcomeUpdated, status.Snapshot{}, nil)
	}

	entries, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected limit to cap the result, got %d entries", len(entries))
	}
}

func TestService_RecordRunCapturesError(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))
	service := NewService(repo, zaptest.NewLogger(t))

	entry := service.RecordRun(ctx, time.Now(), git.OutcomeError, status.Snapshot{}, errors.New("push rejected"))
	if entry.Error != "push rejected" {
		t.Errorf("expected run error to be captured, got %q", entry.Error)
	}

	entries, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Error != "push rejected" {
		t.Errorf("expected stored entry with error, got %+v", entries)
	}
}
