package yamlstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const fileMode = 0o644

// Storage reads and writes YAML record files. All filesystem access goes
// through afero so the store can run against an in-memory filesystem in
// tests.
type Storage struct {
	fs     afero.Fs
	locks  *pathLocks
	logger *zap.Logger
}

func NewStorage(fs afero.Fs, logger *zap.Logger) *Storage {
	return &Storage{
		fs:     fs,
		locks:  newPathLocks(),
		logger: logger,
	}
}

// Load reads and parses the YAML file at path. The document must be a
// mapping. Missing files and malformed documents both surface as ErrDecode;
// os.ErrNotExist stays in the chain so callers can tell absence apart.
func (s *Storage) Load(path string) (map[string]any, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	value, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}

	record, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: document at %s is not a mapping", ErrDecode, path)
	}

	return record, nil
}

// Store writes data to path as YAML, replacing any previous content
// wholesale: no merging with fields already on disk is attempted, so a
// stored record is exactly what the caller passed. A nil data deletes the
// file; deleting an absent file is logged and ignored. Concurrent stores to
// the same path are serialized, so readers never observe interleaved
// partial writes.
func (s *Storage) Store(path string, data map[string]any) error {
	release := s.locks.acquire(path)
	defer release()

	if data == nil {
		err := s.fs.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove record file: %w", err)
		}
		if os.IsNotExist(err) {
			s.logger.Warn("record file already absent", zap.String("path", path))
		}
		return nil
	}

	// Encode before touching disk so a failure leaves existing content
	// intact.
	encoded, err := Marshal(data)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}

	if err := afero.WriteFile(s.fs, path, encoded, fileMode); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}

	return nil
}

// Exists reports whether a record file is present at path.
func (s *Storage) Exists(path string) (bool, error) {
	ok, err := afero.Exists(s.fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to stat record file: %w", err)
	}

	return ok, nil
}

// ListFiles returns the names (without extension) of YAML files directly
// under dir. A missing directory yields an empty list.
func (s *Storage) ListFiles(dir string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read record directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}

	return names, nil
}
