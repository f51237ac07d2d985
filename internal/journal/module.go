package journal

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"journal",
		logger.WithNamedLogger("journal"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(NewService),
	)
}
