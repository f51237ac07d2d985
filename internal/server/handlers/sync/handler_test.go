package sync

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gitvault/gitvault/internal/git"
	"github.com/gitvault/gitvault/internal/status"
	"github.com/samber/lo"
	"go.uber.org/zap/zaptest"
)

// brokenWriter fails every write after the first, like a socket whose peer
// has gone away. Not safe for concurrent use; the test reads it only after
// the pump goroutine is done.
type brokenWriter struct {
	first  bytes.Buffer
	writes int
}

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > 1 {
		return 0, errors.New("broken pipe")
	}

	return w.first.Write(p)
}

func TestPumpStatus_ReturnsWhenIdleClientDisconnects(t *testing.T) {
	tracker := status.NewTracker(zaptest.NewLogger(t))
	h := &Handler{tracker: tracker, logger: zaptest.NewLogger(t)}

	writer := &brokenWriter{}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// The initial snapshot goes through; with no further status
		// activity, only the keep-alive can surface the dead client.
		h.pumpStatus(bufio.NewWriter(writer), 5*time.Millisecond)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected pump to return after a failed keep-alive write")
	}

	if got := writer.first.String(); !bytes.HasPrefix(writer.first.Bytes(), []byte("data: {")) {
		t.Errorf("expected an initial SSE snapshot event, got %q", got)
	}

	// The subscription must be gone: publishing again must not panic on a
	// closed or orphaned channel.
	tracker.Report(context.Background(), git.Status{IsOffline: lo.ToPtr(false)})
}
