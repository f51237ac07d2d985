package badgerfx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const gcInterval = 5 * time.Minute

// gcDiscardRatio rewrites a value log file once 50% of it is stale.
const gcDiscardRatio = 0.5

func Module() fx.Option {
	return fx.Module(
		"badgerfx",
		logger.WithNamedLogger("badgerfx"),
		fx.Provide(newLogger, fx.Private),
		fx.Provide(New),
		fx.Invoke(func(db *badger.DB, log *zap.Logger, lifecycle fx.Lifecycle) {
			done := make(chan struct{})
			stopped := make(chan struct{})

			lifecycle.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go runGC(db, log, done, stopped)
					return nil
				},
				OnStop: func(_ context.Context) error {
					close(done)
					<-stopped

					if err := db.Close(); err != nil {
						return fmt.Errorf("failed to close BadgerDB: %w", err)
					}
					return nil
				},
			})
		}),
	)
}

// runGC periodically reclaims stale value log space. Badger never runs
// garbage collection on its own.
func runGC(db *badger.DB, log *zap.Logger, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		// One file per call; loop until nothing is left to rewrite.
		for {
			err := db.RunValueLogGC(gcDiscardRatio)
			if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
				break
			}
			if err != nil {
				log.Warn("value log GC failed", zap.Error(err))
				break
			}
		}
	}
}
