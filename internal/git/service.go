package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v6"
	gitconfig "github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	githttp "github.com/go-git/go-git/v6/plumbing/transport/http"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Service orchestrates all Git operations against one working directory.
// Mutating operations (clone, commit, pull, push, the commit-ahead audit)
// are serialized through a per-instance gate; read-only operations run
// ungated and may observe a momentarily in-flux working tree.
type Service struct {
	config   Config
	session  *Session
	reporter StatusReporter
	gate     *mutationGate

	logger *zap.Logger
}

func NewService(config Config, session *Session, reporter StatusReporter, logger *zap.Logger) *Service {
	config = config.withDefaults()

	return &Service{
		config:   config,
		session:  session,
		reporter: reporter,
		gate:     newMutationGate(config.LockTimeout),
		logger:   logger,
	}
}

// WorkDir returns the working directory the service operates on.
func (s *Service) WorkDir() string {
	return s.config.WorkDir
}

// IsInitialized reports whether the working directory holds a Git checkout.
func (s *Service) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(s.config.WorkDir, gogit.GitDirName))
	return !os.IsNotExist(err)
}

// Synchronize runs one pull/push reconciliation pass, reporting each state
// transition to the status reporter. Classified failures (local changes,
// offline, missing or rejected credentials, divergence) terminate the run
// with a status update and no error; only unexpected failures return one.
func (s *Service) Synchronize(ctx context.Context) (Outcome, error) {
	started := time.Now()

	outcome, err := s.synchronize(ctx)

	syncRuns.WithLabelValues(string(outcome)).Inc()
	syncDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		s.logger.Error("synchronization failed",
			zap.String("outcome", string(outcome)),
			zap.Error(err))
	} else {
		s.logger.Info("synchronization finished",
			zap.String("outcome", string(outcome)),
			zap.Duration("elapsed", time.Since(started)))
	}

	return outcome, err
}

func (s *Service) synchronize(ctx context.Context) (Outcome, error) {
	changed, err := s.ListChangedFiles()
	if err != nil {
		return OutcomeError, err
	}

	// Never pull or push over uncommitted local edits.
	if len(changed) > 0 {
		s.report(ctx, Status{HasLocalChanges: lo.ToPtr(true)})
		return OutcomeLocalChanges, nil
	}
	s.report(ctx, Status{HasLocalChanges: lo.ToPtr(false)})

	if !s.isOnline(ctx) {
		s.report(ctx, Status{IsOffline: lo.ToPtr(true)})
		return OutcomeOffline, nil
	}
	s.report(ctx, Status{IsOffline: lo.ToPtr(false)})

	username, password, ok := s.session.Credentials()
	if !ok {
		s.report(ctx, Status{NeedsPassword: lo.ToPtr(true)})
		return OutcomeNeedsPassword, nil
	}
	s.report(ctx, Status{NeedsPassword: lo.ToPtr(false)})

	auth := s.basicAuth(username, password)

	release, err := s.gate.acquire()
	if err != nil {
		return OutcomeError, err
	}
	defer release()

	s.report(ctx, Status{IsPulling: lo.ToPtr(true)})
	pullErr := s.pull(ctx, auth)
	s.report(ctx, Status{IsPulling: lo.ToPtr(false)})

	if outcome, err := s.handleTransportError(ctx, pullErr, ErrPullFailed); outcome != "" {
		return outcome, err
	}

	s.report(ctx, Status{IsPushing: lo.ToPtr(true)})
	pushErr := s.push(ctx, auth)
	s.report(ctx, Status{IsPushing: lo.ToPtr(false)})

	if outcome, err := s.handleTransportError(ctx, pushErr, ErrPushFailed); outcome != "" {
		return outcome, err
	}

	s.report(ctx, Status{
		RelativeToLocal: lo.ToPtr(RelationUpdated),
		IsMisconfigured: lo.ToPtr(false),
		NeedsPassword:   lo.ToPtr(false),
	})

	return OutcomeUpdated, nil
}

// handleTransportError turns a classified pull/push failure into its
// terminal outcome. Returns an empty outcome when the run should continue.
func (s *Service) handleTransportError(ctx context.Context, err, wrap error) (Outcome, error) {
	switch {
	case err == nil:
		return "", nil

	case errors.Is(err, ErrDiverged):
		s.report(ctx, Status{RelativeToLocal: lo.ToPtr(RelationDiverged)})
		return OutcomeDiverged, nil

	case errors.Is(err, ErrAuthenticationRequired):
		// Do not retry a rejected credential next run.
		s.session.Clear()
		s.report(ctx, Status{NeedsPassword: lo.ToPtr(true)})
		return OutcomeNeedsPassword, nil

	case errors.Is(err, ErrMissingIdentity):
		s.report(ctx, Status{IsMisconfigured: lo.ToPtr(true)})
		return OutcomeError, fmt.Errorf("%w: %w", wrap, err)

	default:
		return OutcomeError, fmt.Errorf("%w: %w", wrap, err)
	}
}

func (s *Service) pull(ctx context.Context, auth *githttp.BasicAuth) error {
	repo, err := s.open()
	if err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	s.logger.Info("pulling repository",
		zap.String("path", s.config.WorkDir),
		zap.String("branch", s.config.Branch))

	// go-git refuses to create merge commits, so this pull is
	// fast-forward-only; divergence comes back classified.
	err = worktree.PullContext(ctx, &gogit.PullOptions{
		RemoteName:    RemoteOrigin,
		ReferenceName: plumbing.NewBranchReferenceName(s.config.Branch),
		SingleBranch:  true,
		Auth:          auth,
	})

	return classify(err)
}

func (s *Service) push(ctx context.Context, auth *githttp.BasicAuth) error {
	repo, err := s.open()
	if err != nil {
		return err
	}

	s.logger.Info("pushing repository",
		zap.String("path", s.config.WorkDir),
		zap.String("remote", RemoteOrigin))

	err = repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: RemoteOrigin,
		Auth:       auth,
	})

	return classify(err)
}

// CommitPaths stages exactly the given paths and wraps them in one commit.
// An empty path list is a caller bug and fails loudly. The author falls
// back from the argument to the engine configuration to the repository's
// own Git config; if all are empty the commit fails with
// ErrMissingIdentity.
func (s *Service) CommitPaths(_ context.Context, paths []string, message string, author Signature) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoPathSpecs
	}

	release, err := s.gate.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	repo, err := s.open()
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	identity, err := s.resolveAuthor(repo, author)
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, addErr := worktree.Add(path); addErr != nil {
			return "", fmt.Errorf("failed to stage %s: %w", path, addErr)
		}
	}

	hash, err := worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  identity.Name,
			Email: identity.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", classify(err)
	}

	s.logger.Info("created commit",
		zap.String("hash", hash.String()),
		zap.String("message", message),
		zap.Strings("paths", paths))

	return hash.String(), nil
}

// ListChangedFiles returns the paths differing between HEAD and the working
// tree, sorted. The result is derived from a live status pass and never
// cached. No gate is taken; a concurrent mutation may be reflected
// partially.
func (s *Service) ListChangedFiles() ([]string, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}

	var changed []string
	for path, fileStatus := range status {
		if fileStatus.Worktree == gogit.Unmodified && fileStatus.Staging == gogit.Unmodified {
			continue
		}
		changed = append(changed, path)
	}
	sort.Strings(changed)

	return changed, nil
}

// CheckUncommitted reports whether any path differs between HEAD and the
// working tree.
func (s *Service) CheckUncommitted() (bool, error) {
	changed, err := s.ListChangedFiles()
	if err != nil {
		return false, err
	}

	return len(changed) > 0, nil
}

// ListLocalCommits walks history from HEAD collecting messages of commits
// not yet reachable from the origin branch head. The walk is bounded by
// MaxAheadWalk; failing to reach the ancestor boundary within the bound
// signals an abnormal history shape and fails with ErrAncestorNotFound
// rather than returning a partial list.
func (s *Service) ListLocalCommits(_ context.Context) ([]string, error) {
	release, err := s.gate.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	repo, err := s.open()
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(RemoteOrigin, s.config.Branch), true)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot resolve %s/%s: %w", ErrAncestorNotFound, RemoteOrigin, s.config.Branch, err)
	}

	remoteCommit, err := repo.CommitObject(remoteRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to load remote head commit: %w", err)
	}

	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history: %w", err)
	}
	defer iter.Close()

	var messages []string
	for walked := 0; walked < s.config.MaxAheadWalk; walked++ {
		commit, iterErr := iter.Next()
		if errors.Is(iterErr, io.EOF) {
			// Root reached without meeting the remote head: histories
			// are unrelated.
			return nil, fmt.Errorf("%w: walked %d commits to the root", ErrAncestorNotFound, walked)
		}
		if iterErr != nil {
			return nil, fmt.Errorf("failed to walk history: %w", iterErr)
		}

		if commit.Hash == remoteCommit.Hash {
			return messages, nil
		}

		reachable, ancErr := commit.IsAncestor(remoteCommit)
		if ancErr != nil {
			return nil, fmt.Errorf("failed to check ancestry of %s: %w", commit.Hash, ancErr)
		}
		if reachable {
			return messages, nil
		}

		messages = append(messages, strings.TrimSpace(commit.Message))
	}

	return nil, fmt.Errorf("%w: walked %d commits", ErrAncestorNotFound, s.config.MaxAheadWalk)
}

// ForceInitialize destructively replaces the working directory with a fresh
// shallow clone of the primary remote and registers the upstream remote.
// Any uncommitted local state is lost; callers must request this
// explicitly.
func (s *Service) ForceInitialize(ctx context.Context) error {
	release, err := s.gate.acquire()
	if err != nil {
		return err
	}
	defer release()

	s.logger.Warn("force-initializing working directory",
		zap.String("path", s.config.WorkDir),
		zap.String("url", s.config.RemoteURL))

	if err := os.RemoveAll(s.config.WorkDir); err != nil {
		return fmt.Errorf("failed to wipe working directory: %w", err)
	}

	var auth *githttp.BasicAuth
	if username, password, ok := s.session.Credentials(); ok {
		auth = s.basicAuth(username, password)
	}

	repo, err := gogit.PlainCloneContext(ctx, s.config.WorkDir, &gogit.CloneOptions{
		URL:           s.config.RemoteURL,
		RemoteName:    RemoteOrigin,
		ReferenceName: plumbing.NewBranchReferenceName(s.config.Branch),
		SingleBranch:  true,
		Depth:         s.config.CloneDepth,
		Auth:          auth,
	})
	if err != nil {
		classified := classify(err)
		if errors.Is(classified, ErrAuthenticationRequired) || errors.Is(classified, ErrDiverged) {
			return classified
		}
		return fmt.Errorf("%w: %w", ErrCloneFailed, err)
	}

	if s.config.UpstreamURL != "" {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
			Name: RemoteUpstream,
			URLs: []string{s.config.UpstreamURL},
		})
		if err != nil {
			return fmt.Errorf("failed to register upstream remote: %w", err)
		}
	}

	s.logger.Info("working directory initialized",
		zap.String("path", s.config.WorkDir))

	return nil
}

func (s *Service) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpen(s.config.WorkDir)
	if err != nil {
		return nil, classify(err)
	}

	return repo, nil
}

func (s *Service) isOnline(ctx context.Context) bool {
	_, err := net.DefaultResolver.LookupHost(ctx, s.config.OnlineCheckHost)
	if err != nil {
		s.logger.Warn("online check failed",
			zap.String("host", s.config.OnlineCheckHost),
			zap.Error(err))
	}

	return err == nil
}

func (s *Service) basicAuth(username, password string) *githttp.BasicAuth {
	if username == "" {
		username = s.config.Username
	}
	if username == "" {
		// Token-based HTTPS remotes accept any non-empty username.
		username = "git"
	}

	return &githttp.BasicAuth{
		Username: username,
		Password: password,
	}
}

func (s *Service) resolveAuthor(repo *gogit.Repository, author Signature) (Signature, error) {
	if !author.empty() {
		return author, nil
	}

	if s.config.AuthorName != "" || s.config.AuthorEmail != "" {
		return Signature{Name: s.config.AuthorName, Email: s.config.AuthorEmail}, nil
	}

	cfg, err := repo.ConfigScoped(gitconfig.SystemScope)
	if err == nil && (cfg.User.Name != "" || cfg.User.Email != "") {
		return Signature{Name: cfg.User.Name, Email: cfg.User.Email}, nil
	}

	return Signature{}, ErrMissingIdentity
}

func (s *Service) report(ctx context.Context, status Status) {
	if s.reporter == nil {
		return
	}

	s.reporter.Report(ctx, status)
}
