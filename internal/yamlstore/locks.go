package yamlstore

import "sync"

// pathLocks serializes writers per file path. Waiters queue on the per-path
// mutex, so concurrent stores to one path apply in some total order while
// stores to distinct paths proceed independently.
type pathLocks struct {
	mu    sync.Mutex
	paths map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func newPathLocks() *pathLocks {
	return &pathLocks{
		paths: make(map[string]*pathLock),
	}
}

// acquire blocks until the lock for path is held and returns the release
// function. Entries are dropped once the last holder releases.
func (l *pathLocks) acquire(path string) func() {
	l.mu.Lock()
	entry, ok := l.paths[path]
	if !ok {
		entry = &pathLock{}
		l.paths[path] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.paths, path)
		}
		l.mu.Unlock()
	}
}
