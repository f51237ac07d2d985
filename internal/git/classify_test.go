package git

import (
	"errors"
	"fmt"
	"testing"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/transport"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"already up to date", gogit.NoErrAlreadyUpToDate, nil},
		{"non fast forward", gogit.ErrNonFastForwardUpdate, ErrDiverged},
		{"wrapped non fast forward", fmt.Errorf("pull: %w", gogit.ErrNonFastForwardUpdate), ErrDiverged},
		{"auth required", transport.ErrAuthenticationRequired, ErrAuthenticationRequired},
		{"authorization failed", transport.ErrAuthorizationFailed, ErrAuthenticationRequired},
		{"not a repository", gogit.ErrRepositoryNotExists, ErrNotInitialized},
		{"push rejection text", errors.New("command error on refs/heads/master: non-fast-forward update"), ErrDiverged},
		{"auth text", errors.New("authentication required: basic"), ErrAuthenticationRequired},
		{"identity text", errors.New("author field is required"), ErrMissingIdentity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.in)

			if tc.want == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}

			if !errors.Is(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
			// The original error stays in the chain for logging.
			if !errors.Is(got, tc.in) {
				t.Errorf("expected original error in chain, got %v", got)
			}
		})
	}
}

func TestClassify_PassthroughUnknown(t *testing.T) {
	opaque := errors.New("remote hung up unexpectedly")

	got := classify(opaque)
	if !errors.Is(got, opaque) {
		t.Errorf("expected opaque error unchanged, got %v", got)
	}
	for _, sentinel := range []error{ErrDiverged, ErrAuthenticationRequired, ErrMissingIdentity} {
		if errors.Is(got, sentinel) {
			t.Errorf("unexpected classification %v for opaque error", sentinel)
		}
	}
}
