package badgerfx

import "github.com/dgraph-io/badger/v4"

type Config struct {
	// Dir is the BadgerDB data directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps the whole store in RAM; used by tests.
	InMemory bool
}

func (c Config) Build() badger.Options {
	if c.InMemory {
		return badger.DefaultOptions("").WithInMemory(true)
	}

	return badger.DefaultOptions(c.Dir)
}
