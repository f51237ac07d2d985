package status

import (
	"context"
	"sync"
	"time"

	"github.com/gitvault/gitvault/internal/git"
	"go.uber.org/zap"
)

// Snapshot is the fully merged synchronization status, the equivalent of
// the last state the desktop UI would have displayed.
type Snapshot struct {
	IsOffline       bool               `json:"is_offline"`
	IsPulling       bool               `json:"is_pulling"`
	IsPushing       bool               `json:"is_pushing"`
	HasLocalChanges bool               `json:"has_local_changes"`
	NeedsPassword   bool               `json:"needs_password"`
	IsMisconfigured bool               `json:"is_misconfigured"`
	RelativeToLocal git.RemoteRelation `json:"status_relative_to_local"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Tracker merges the engine's partial status updates into a snapshot and
// fans each revision out to subscribers. Report never blocks: a subscriber
// whose buffer is full misses intermediate revisions and catches up on the
// next one.
type Tracker struct {
	mu          sync.Mutex
	snapshot    Snapshot
	subscribers map[int]chan Snapshot
	nextID      int

	logger *zap.Logger
}

func NewTracker(logger *zap.Logger) *Tracker {
	return &Tracker{
		snapshot:    Snapshot{RelativeToLocal: git.RelationUnknown},
		subscribers: make(map[int]chan Snapshot),
		logger:      logger,
	}
}

// Report implements git.StatusReporter.
func (t *Tracker) Report(_ context.Context, status git.Status) {
	t.mu.Lock()

	if status.IsOffline != nil {
		t.snapshot.IsOffline = *status.IsOffline
	}
	if status.IsPulling != nil {
		t.snapshot.IsPulling = *status.IsPulling
	}
	if status.IsPushing != nil {
		t.snapshot.IsPushing = *status.IsPushing
	}
	if status.HasLocalChanges != nil {
		t.snapshot.HasLocalChanges = *status.HasLocalChanges
	}
	if status.NeedsPassword != nil {
		t.snapshot.NeedsPassword = *status.NeedsPassword
	}
	if status.IsMisconfigured != nil {
		t.snapshot.IsMisconfigured = *status.IsMisconfigured
	}
	if status.RelativeToLocal != nil {
		t.snapshot.RelativeToLocal = *status.RelativeToLocal
	}
	t.snapshot.UpdatedAt = time.Now()

	snapshot := t.snapshot
	t.mu.Unlock()

	t.logger.Debug("status updated",
		zap.Bool("offline", snapshot.IsOffline),
		zap.Bool("pulling", snapshot.IsPulling),
		zap.Bool("pushing", snapshot.IsPushing),
		zap.Bool("local_changes", snapshot.HasLocalChanges),
		zap.Bool("needs_password", snapshot.NeedsPassword),
		zap.String("relative_to_local", string(snapshot.RelativeToLocal)))

	t.publish(snapshot)
}

// Snapshot returns the current merged status.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snapshot
}

// Subscribe registers a status listener. The returned cancel function must
// be called to release the subscription.
func (t *Tracker) Subscribe() (<-chan Snapshot, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++

	ch := make(chan Snapshot, 16)
	t.subscribers[id] = ch

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if existing, ok := t.subscribers[id]; ok {
			delete(t.subscribers, id)
			close(existing)
		}
	}

	return ch, cancel
}

func (t *Tracker) publish(snapshot Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, ch := range t.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Slow consumer: drop this revision.
		}
	}
}
