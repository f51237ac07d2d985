package records

import (
	"context"
	"errors"
	"testing"

	"github.com/gitvault/gitvault/internal/yamlstore"
	"github.com/spf13/afero"
	"go.uber.org/zap/zaptest"
)

type fakeGitService struct {
	commits []fakeCommit
	changed []string
	err     error
}

type fakeCommit struct {
	paths   []string
	message string
	author  Author
}

func (f *fakeGitService) CommitPaths(_ context.Context, paths []string, message string, author Author) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	f.commits = append(f.commits, fakeCommit{paths: paths, message: message, author: author})

	return "deadbeef", nil
}

func (f *fakeGitService) ListChangedFiles() ([]string, error) {
	return f.changed, f.err
}

func newTestStore(t *testing.T, gitSvc GitService) *Store {
	t.Helper()

	serializer := yamlstore.NewStorage(afero.NewMemMapFs(), zaptest.NewLogger(t))
	paths := NewPathBuilder("/work/records", "/work")

	return NewStore(serializer, gitSvc, paths, zaptest.NewLogger(t))
}

func TestStore_CreateAndRead(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeGitService{})

	data := Record{"title": "hello", "count": 3}
	if err := store.Create(ctx, "posts", "first", data, CommitOptions{}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Read(ctx, "posts", "first")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got["title"] != "hello" {
		t.Errorf("expected title hello, got %v", got["title"])
	}
}

func TestStore_CreateConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeGitService{})

	if err := store.Create(ctx, "posts", "first", Record{"a": 1}, CommitOptions{}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := store.Create(ctx, "posts", "first", Record{"a": 2}, CommitOptions{})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestStore_UpdateOverwritesWholesale(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeGitService{})

	if err := store.Create(ctx, "posts", "first", Record{"title": "old", "extra": true}, CommitOptions{}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Update(ctx, "posts", "first", Record{"title": "new"}, CommitOptions{}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.Read(ctx, "posts", "first")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got["title"] != "new" {
		t.Errorf("expected title new, got %v", got["title"])
	}
	if _, ok := got["extra"]; ok {
		t.Error("expected field from previous revision to be gone")
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	store := newTestStore(t, &fakeGitService{})

	err := store.Update(context.Background(), "posts", "ghost", Record{"a": 1}, CommitOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeGitService{})

	if err := store.Create(ctx, "posts", "first", Record{"a": 1}, CommitOptions{}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, "posts", "first", CommitOptions{}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Read(ctx, "posts", "first"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := store.Delete(ctx, "posts", "first", CommitOptions{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStore_ReadMissing(t *testing.T) {
	store := newTestStore(t, &fakeGitService{})

	if _, err := store.Read(context.Background(), "posts", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Index(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeGitService{})

	if err := store.Create(ctx, "posts", "first", Record{"n": 1}, CommitOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, "posts", "second", Record{"n": 2}, CommitOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, "pages", "other", Record{"n": 3}, CommitOptions{}); err != nil {
		t.Fatal(err)
	}

	index, err := store.Index(ctx, "posts")
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	if len(index) != 2 {
		t.Fatalf("expected 2 records, got %d", len(index))
	}
	if index["first"]["n"] != 1 || index["second"]["n"] != 2 {
		t.Errorf("unexpected index contents: %v", index)
	}
}

func TestStore_IndexEmptyLabel(t *testing.T) {
	store := newTestStore(t, &fakeGitService{})

	index, err := store.Index(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if len(index) != 0 {
		t.Errorf("expected empty index, got %v", index)
	}
}

func TestStore_CommitOnMutation(t *testing.T) {
	ctx := context.Background()
	gitSvc := &fakeGitService{}
	store := newTestStore(t, gitSvc)

	author := Author{Name: "Writer", Email: "writer@example.com"}
	if err := store.Create(ctx, "posts", "first", Record{"a": 1}, CommitOptions{Enabled: true, Author: author}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, "posts", "first", CommitOptions{Enabled: true, Author: author}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(gitSvc.commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(gitSvc.commits))
	}

	create := gitSvc.commits[0]
	if create.message != "create posts first" {
		t.Errorf("unexpected commit message: %q", create.message)
	}
	if len(create.paths) != 1 || create.paths[0] != "records/posts/first.yaml" {
		t.Errorf("unexpected commit paths: %v", create.paths)
	}
	if create.author != author {
		t.Errorf("unexpected author: %+v", create.author)
	}

	if gitSvc.commits[1].message != "delete posts first" {
		t.Errorf("unexpected commit message: %q", gitSvc.commits[1].message)
	}
}

func TestStore_CommitMessageOverride(t *testing.T) {
	gitSvc := &fakeGitService{}
	store := newTestStore(t, gitSvc)

	commit := CommitOptions{Enabled: true, Message: "import legacy posts"}
	if err := store.Create(context.Background(), "posts", "first", Record{"a": 1}, commit); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(gitSvc.commits) != 1 || gitSvc.commits[0].message != "import legacy posts" {
		t.Errorf("expected supplied message to win, got %+v", gitSvc.commits)
	}
}

func TestStore_CommitFailurePropagates(t *testing.T) {
	gitSvc := &fakeGitService{err: errors.New("remote hung up")}
	store := newTestStore(t, gitSvc)

	err := store.Create(context.Background(), "posts", "first", Record{"a": 1}, CommitOptions{Enabled: true})
	if err == nil {
		t.Fatal("expected commit failure to propagate")
	}
}

func TestStore_IDsWithUncommittedChanges(t *testing.T) {
	gitSvc := &fakeGitService{changed: []string{
		"records/posts/first.yaml",
		"records/posts/nested/deep.yaml",
		"records/posts/notes.txt",
		"records/pages/other.yaml",
		"unrelated.yaml",
	}}
	store := newTestStore(t, gitSvc)

	ids, err := store.IDsWithUncommittedChanges(context.Background(), "posts")
	if err != nil {
		t.Fatalf("IDsWithUncommittedChanges failed: %v", err)
	}

	if len(ids) != 1 || ids[0] != "first" {
		t.Errorf("expected [first], got %v", ids)
	}
}
