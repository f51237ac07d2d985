package records

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gitvault/gitvault/internal/yamlstore"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Store provides CRUD over individual records, one YAML file per record,
// with an optional Git commit wrapping every mutation.
type Store struct {
	serializer *yamlstore.Storage
	gitSvc     GitService
	paths      PathBuilder

	logger *zap.Logger
}

func NewStore(serializer *yamlstore.Storage, gitSvc GitService, paths PathBuilder, logger *zap.Logger) *Store {
	return &Store{
		serializer: serializer,
		gitSvc:     gitSvc,
		paths:      paths,
		logger:     logger,
	}
}

// Read loads the record with the given label and ID.
func (s *Store) Read(_ context.Context, label, id string) (Record, error) {
	record, err := s.serializer.Load(s.paths.RecordPath(label, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, label, id)
		}
		return nil, err
	}

	return record, nil
}

// Create writes a new record and, when a commit is requested, wraps the
// write in a Git commit. Fails with ErrConflict if the ID is already taken.
func (s *Store) Create(ctx context.Context, label, id string, data Record, commit CommitOptions) error {
	path := s.paths.RecordPath(label, id)

	exists, err := s.serializer.Exists(path)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s/%s", ErrConflict, label, id)
	}

	if err := s.serializer.Store(path, data); err != nil {
		return err
	}

	if commit.Enabled {
		return s.commitRecord(ctx, "create", label, id, commit)
	}

	return nil
}

// Update overwrites the record wholesale; the previous file content does
// not survive in any field the new data lacks. Fails with ErrNotFound if
// the record does not exist.
func (s *Store) Update(ctx context.Context, label, id string, data Record, commit CommitOptions) error {
	path := s.paths.RecordPath(label, id)

	exists, err := s.serializer.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, label, id)
	}

	if err := s.serializer.Store(path, data); err != nil {
		return err
	}

	if commit.Enabled {
		return s.commitRecord(ctx, "update", label, id, commit)
	}

	return nil
}

// Delete removes the record file.
func (s *Store) Delete(ctx context.Context, label, id string, commit CommitOptions) error {
	path := s.paths.RecordPath(label, id)

	exists, err := s.serializer.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, label, id)
	}

	if err := s.serializer.Store(path, nil); err != nil {
		return err
	}

	if commit.Enabled {
		return s.commitRecord(ctx, "delete", label, id, commit)
	}

	return nil
}

// Index loads every record under the label's directory, keyed by ID.
func (s *Store) Index(_ context.Context, label string) (map[string]Record, error) {
	ids, err := s.serializer.ListFiles(s.paths.LabelDir(label))
	if err != nil {
		return nil, err
	}

	index := make(map[string]Record, len(ids))
	for _, id := range ids {
		record, loadErr := s.serializer.Load(s.paths.RecordPath(label, id))
		if loadErr != nil {
			return nil, fmt.Errorf("failed to index %s/%s: %w", label, id, loadErr)
		}
		index[id] = record
	}

	return index, nil
}

// IDsWithUncommittedChanges derives, from the live Git change set, which
// record IDs under the label have pending local modifications.
func (s *Store) IDsWithUncommittedChanges(_ context.Context, label string) ([]string, error) {
	changed, err := s.gitSvc.ListChangedFiles()
	if err != nil {
		return nil, err
	}

	prefix := s.paths.RelativeLabelDir(label) + "/"

	ids := lo.FilterMap(changed, func(path string, _ int) (string, bool) {
		if !strings.HasPrefix(path, prefix) {
			return "", false
		}

		name := strings.TrimPrefix(path, prefix)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, recordExt) {
			return "", false
		}

		return strings.TrimSuffix(name, recordExt), true
	})

	return ids, nil
}

// commitRecord wraps one record mutation in a commit. The default message
// "<verb> <label> <id>" is deterministic and machine-parseable; callers may
// supply their own instead.
func (s *Store) commitRecord(ctx context.Context, verb, label, id string, commit CommitOptions) error {
	message := commit.Message
	if message == "" {
		message = fmt.Sprintf("%s %s %s", verb, label, id)
	}

	hash, err := s.gitSvc.CommitPaths(ctx, []string{s.paths.RelativeRecordPath(label, id)}, message, commit.Author)
	if err != nil {
		return fmt.Errorf("failed to commit record mutation: %w", err)
	}

	s.logger.Info("committed record mutation",
		zap.String("verb", verb),
		zap.String("label", label),
		zap.String("id", id),
		zap.String("hash", hash))

	return nil
}
