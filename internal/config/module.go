package config

import (
	"github.com/gitvault/gitvault/internal/git"
	"github.com/gitvault/gitvault/internal/records"
	"github.com/gitvault/gitvault/pkg/badgerfx"
	"github.com/go-core-fx/fiberfx"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir: cfg.Storage.DataDir,
			}
		}),
		fx.Provide(func(cfg Config) git.Config {
			return git.Config{
				WorkDir:         cfg.Git.WorkDir,
				RemoteURL:       cfg.Git.RemoteURL,
				UpstreamURL:     cfg.Git.UpstreamURL,
				Branch:          cfg.Git.Branch,
				Username:        cfg.Git.Username,
				AuthorName:      cfg.Git.AuthorName,
				AuthorEmail:     cfg.Git.AuthorEmail,
				LockTimeout:     cfg.Git.LockTimeout,
				CloneDepth:      cfg.Git.CloneDepth,
				MaxAheadWalk:    cfg.Git.MaxAheadWalk,
				OnlineCheckHost: cfg.Git.OnlineCheckHost,
			}
		}),
		fx.Provide(func(cfg Config) records.Config {
			dir := cfg.Records.Dir
			if dir == "" {
				dir = cfg.Git.WorkDir
			}
			return records.Config{
				BaseDir: dir,
				WorkDir: cfg.Git.WorkDir,
			}
		}),
	)
}
