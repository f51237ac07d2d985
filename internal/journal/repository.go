package journal

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitvault/gitvault/internal/storage"
)

type Repository struct {
	db      *badger.DB
	entries *storage.Repository[*Entry]
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db:      db,
		entries: storage.NewRepository(func() *Entry { return &Entry{} }),
	}
}

// Append persists one journal entry.
func (r *Repository) Append(_ context.Context, entry *Entry) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return r.entries.Write(txn, entry)
	})
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}

	return nil
}

// List returns up to limit entries, newest first.
func (r *Repository) List(_ context.Context, limit int) ([]*Entry, error) {
	var entries []*Entry

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true

		all, err := r.entries.List(txn, prefixByID, options)
		if err != nil {
			return err
		}

		if limit > 0 && len(all) > limit {
			all = all[:limit]
		}
		entries = all

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	return entries, nil
}
