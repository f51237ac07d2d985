package git

import (
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/transport"
)

// classify translates errors from the underlying go-git layer into this
// package's closed sentinel set. All knowledge of go-git's error values,
// including the push rejections it only surfaces as message text, stays in
// this file; engine logic matches sentinels with errors.Is and never
// inspects strings.
func classify(err error) error {
	if err == nil || errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil
	}

	switch {
	case errors.Is(err, gogit.ErrNonFastForwardUpdate):
		return fmt.Errorf("%w: %w", ErrDiverged, err)
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return fmt.Errorf("%w: %w", ErrAuthenticationRequired, err)
	case errors.Is(err, gogit.ErrRepositoryNotExists):
		return fmt.Errorf("%w: %w", ErrNotInitialized, err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "non-fast-forward update"),
		strings.Contains(msg, "fetch first"),
		strings.Contains(msg, "merge abort"):
		return fmt.Errorf("%w: %w", ErrDiverged, err)
	case strings.Contains(msg, "authentication required"),
		strings.Contains(msg, "authorization failed"),
		strings.Contains(msg, "invalid credentials"):
		return fmt.Errorf("%w: %w", ErrAuthenticationRequired, err)
	case strings.Contains(msg, "author field is required"),
		strings.Contains(msg, "committer field is required"),
		strings.Contains(msg, "user.name"),
		strings.Contains(msg, "user.email"):
		return fmt.Errorf("%w: %w", ErrMissingIdentity, err)
	}

	return err
}
