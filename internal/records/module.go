package records

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"records",
		logger.WithNamedLogger("records"),
		fx.Provide(func(cfg Config) PathBuilder {
			return NewPathBuilder(cfg.BaseDir, cfg.WorkDir)
		}, fx.Private),
		fx.Provide(NewGitAdapter, fx.Private),
		fx.Provide(NewStore),
	)
}
