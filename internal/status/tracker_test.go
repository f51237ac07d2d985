package status

import (
	"context"
	"testing"

	"github.com/gitvault/gitvault/internal/git"
	"github.com/samber/lo"
	"go.uber.org/zap/zaptest"
)

func TestTracker_MergesPartialUpdates(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(zaptest.NewLogger(t))

	if got := tracker.Snapshot().RelativeToLocal; got != git.RelationUnknown {
		t.Fatalf("expected initial relation unknown, got %s", got)
	}

	tracker.Report(ctx, git.Status{HasLocalChanges: lo.ToPtr(true)})
	tracker.Report(ctx, git.Status{IsPulling: lo.ToPtr(true)})

	snapshot := tracker.Snapshot()
	if !snapshot.HasLocalChanges {
		t.Error("expected earlier field to survive a later partial update")
	}
	if !snapshot.IsPulling {
		t.Error("expected isPulling to be merged in")
	}
	if snapshot.UpdatedAt.IsZero() {
		t.Error("expected updatedAt to be set")
	}

	tracker.Report(ctx, git.Status{
		IsPulling:       lo.ToPtr(false),
		RelativeToLocal: lo.ToPtr(git.RelationUpdated),
	})

	snapshot = tracker.Snapshot()
	if snapshot.IsPulling {
		t.Error("expected isPulling to be cleared")
	}
	if snapshot.RelativeToLocal != git.RelationUpdated {
		t.Errorf("expected relation updated, got %s", snapshot.RelativeToLocal)
	}
	if !snapshot.HasLocalChanges {
		t.Error("expected untouched field to keep its value")
	}
}

func TestTracker_SubscribeReceivesRevisions(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(zaptest.NewLogger(t))

	ch, cancel := tracker.Subscribe()
	defer cancel()

	tracker.Report(ctx, git.Status{IsOffline: lo.ToPtr(true)})

	select {
	case snapshot := <-ch:
		if !snapshot.IsOffline {
			t.Error("expected published snapshot to carry the update")
		}
	default:
		t.Fatal("expected a buffered revision")
	}
}

func TestTracker_CancelClosesChannel(t *testing.T) {
	tracker := NewTracker(zaptest.NewLogger(t))

	ch, cancel := tracker.Subscribe()
	cancel()
	cancel() // idempotent

	if _, open := <-ch; open {
		t.Error("expected channel to be closed after cancel")
	}

	// A report after cancellation must not panic on the closed channel.
	tracker.Report(context.Background(), git.Status{IsOffline: lo.ToPtr(true)})
}

func TestTracker_SlowSubscriberDropsRevisions(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(zaptest.NewLogger(t))

	ch, cancel := tracker.Subscribe()
	defer cancel()

	// Overflow the subscriber buffer; Report must never block.
	for i := 0; i < 64; i++ {
		tracker.Report(ctx, git.Status{IsPulling: lo.ToPtr(i%2 == 0)})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}

	if received == 0 || received > 16 {
		t.Errorf("expected between 1 and 16 buffered revisions, got %d", received)
	}
}
