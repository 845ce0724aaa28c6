package kafka

import (
	"context"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"go.uber.org/fx"
)

// StartConsumer runs the consumer for the lifetime of the app. A
// consumer error brings the whole process down rather than leaving the
// HTTP surface up with dead notification delivery.
func StartConsumer(lc fx.Lifecycle, sd fx.Shutdowner, consumer Consumer) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := consumer.Start(runCtx); err != nil {
					log.Errorw(runCtx, "kafka consumer stopped", "error", err)
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return consumer.Stop(ctx)
		},
	})
}
