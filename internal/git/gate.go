package git

import (
	"fmt"
	"sync/atomic"
	"time"
)

// mutationGate serializes repository-mutating operations for one engine
// instance. At most one waiter may queue behind the active holder; further
// callers, and waiters that outlast the timeout, fail with ErrBusy instead
// of blocking indefinitely.
type mutationGate struct {
	slot    chan struct{}
	pending atomic.Int32
	timeout time.Duration

	maxPending int32
}

func newMutationGate(timeout time.Duration) *mutationGate {
	g := &mutationGate{
		slot:       make(chan struct{}, 1),
		timeout:    timeout,
		maxPending: 1,
	}
	g.slot <- struct{}{}

	return g
}

// acquire takes the gate and returns its release function.
func (g *mutationGate) acquire() (func(), error) {
	select {
	case <-g.slot:
		return g.release, nil
	default:
	}

	if g.pending.Add(1) > g.maxPending {
		g.pending.Add(-1)
		return nil, fmt.Errorf("%w: wait queue is full", ErrBusy)
	}
	defer g.pending.Add(-1)

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case <-g.slot:
		return g.release, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: timed out after %s", ErrBusy, g.timeout)
	}
}

func (g *mutationGate) release() {
	g.slot <- struct{}{}
}
