package internal

import (
	"context"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/gitvault/gitvault/internal/config"
	"github.com/gitvault/gitvault/internal/git"
	"github.com/gitvault/gitvault/internal/journal"
	"github.com/gitvault/gitvault/internal/records"
	"github.com/gitvault/gitvault/internal/server"
	"github.com/gitvault/gitvault/internal/status"
	"github.com/gitvault/gitvault/internal/yamlstore"
	"github.com/gitvault/gitvault/pkg/badgerfx"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		badgerfx.Module(),
		healthfx.Module(),
		fiberfx.Module(),
		validator.Module,
		//
		// APP MODULES
		config.Module(),
		server.Module(),
		//
		// BUSINESS MODULES
		fx.Provide(func() healthfx.Version { return healthfx.Version{Version: "0.1.0", ReleaseID: 1} }),
		status.Module(),
		git.Module(),
		yamlstore.Module(),
		records.Module(),
		journal.Module(),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("GitVault starting up")
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("GitVault shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}
