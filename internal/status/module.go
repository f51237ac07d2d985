package status

import (
	"github.com/gitvault/gitvault/internal/git"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"status",
		logger.WithNamedLogger("status"),
		fx.Provide(NewTracker),
		fx.Provide(func(tracker *Tracker) git.StatusReporter { return tracker }),
	)
}
