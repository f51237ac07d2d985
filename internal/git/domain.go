package git

import (
	"context"
	"sync"
)

// StatusReporter receives incremental status updates during a
// synchronization run. Implementations must not block: the engine calls
// Report inline between state transitions and never waits for consumer
// acknowledgment.
type StatusReporter interface {
	Report(ctx context.Context, status Status)
}

// Session holds the transport credentials for the current application
// session. It is owned by the caller and passed to the engine at
// construction; nothing here is persisted. The engine clears the session
// when the remote rejects the credentials, so a stale password is never
// retried.
type Session struct {
	mu       sync.Mutex
	username string
	password string
}

func NewSession() *Session {
	return &Session{}
}

// SetCredentials stores the username and password for subsequent network
// operations. An empty username falls back to the engine's configured one.
func (s *Session) SetCredentials(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.username = username
	s.password = password
}

// Clear drops the stored credentials.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.username = ""
	s.password = ""
}

// Credentials returns the stored pair; ok is false while no password is
// held.
func (s *Session) Credentials() (username, password string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.username, s.password, s.password != ""
}
