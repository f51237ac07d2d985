package git

import "errors"

var (
	ErrNotInitialized         = errors.New("repository not initialized")
	ErrCloneFailed            = errors.New("failed to clone repository")
	ErrPullFailed             = errors.New("failed to pull repository")
	ErrPushFailed             = errors.New("failed to push repository")
	ErrDiverged               = errors.New("local and remote histories have diverged")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrMissingIdentity        = errors.New("author identity is not configured")
	ErrBusy                   = errors.New("another repository operation is in flight")
	ErrNoPathSpecs            = errors.New("no paths given to commit")
	ErrAncestorNotFound       = errors.New("no common ancestor with remote within walk depth")
)
