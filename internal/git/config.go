package git

import "time"

// Remote names are fixed: the user's writable fork and the read-only
// source-of-truth repository.
const (
	RemoteOrigin   = "origin"
	RemoteUpstream = "upstream"
)

type Config struct {
	WorkDir     string
	RemoteURL   string
	UpstreamURL string
	Branch      string

	Username    string
	AuthorName  string
	AuthorEmail string

	LockTimeout     time.Duration
	CloneDepth      int
	MaxAheadWalk    int
	OnlineCheckHost string
}

func (c Config) withDefaults() Config {
	if c.Branch == "" {
		c.Branch = "master"
	}
	if c.LockTimeout <= 0 {
		c.LockTimeout = 30 * time.Second
	}
	if c.CloneDepth <= 0 {
		c.CloneDepth = 5
	}
	if c.MaxAheadWalk <= 0 {
		c.MaxAheadWalk = 100
	}
	if c.OnlineCheckHost == "" {
		c.OnlineCheckHost = "github.com"
	}

	return c
}
