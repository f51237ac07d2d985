package yamlstore

import (
	"github.com/go-core-fx/logger"
	"github.com/spf13/afero"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"yamlstore",
		logger.WithNamedLogger("yamlstore"),
		fx.Provide(func() afero.Fs { return afero.NewOsFs() }, fx.Private),
		fx.Provide(NewStorage),
	)
}
