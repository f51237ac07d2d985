package records

import "context"

// Record is an application-defined structured object. The store does not
// interpret its fields; identity lives in the path, one file per ID.
type Record = map[string]any

// Author is the commit identity attached to record mutations. Zero value
// defers to the engine's configured identity.
type Author struct {
	Name  string
	Email string
}

// CommitOptions controls the Git commit wrapped around one mutation.
type CommitOptions struct {
	// Enabled requests a commit; when false the write is filesystem-only.
	Enabled bool
	// Message replaces the generated "<verb> <label> <id>" message.
	Message string
	Author  Author
}

// GitService is the slice of the synchronization engine the record store
// needs: staging/committing exact pathspecs and reading the live change
// set.
type GitService interface {
	CommitPaths(ctx context.Context, paths []string, message string, author Author) (string, error)
	ListChangedFiles() ([]string, error)
}

// PathBuilder maps a record's object label and ID to its file locations.
// Invariant: the mapping is 1:1 in both directions.
type PathBuilder interface {
	// RecordPath is the filesystem path of the record file.
	RecordPath(label, id string) string

	// RelativeRecordPath is the same path relative to the Git working
	// directory, as used in pathspecs and change sets.
	RelativeRecordPath(label, id string) string

	// LabelDir is the filesystem directory holding all records of label.
	LabelDir(label string) string

	// RelativeLabelDir is LabelDir relative to the Git working directory.
	RelativeLabelDir(label string) string
}

type Config struct {
	// BaseDir is where record files live, normally inside WorkDir.
	BaseDir string
	// WorkDir is the Git working directory record paths are relative to.
	WorkDir string
}
