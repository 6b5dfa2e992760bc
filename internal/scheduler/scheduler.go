package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on every interval until ctx is done.
// Errors are logged and do not stop the loop.
func Every(ctx context.Context, log zerolog.Logger, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	run := func() {
		start := time.Now()
		if err := task(ctx); err != nil {
			log.Warn().Str("task", name).Err(err).Msg("scheduled task failed")
			return
		}
		log.Debug().Str("task", name).Dur("took", time.Since(start)).Msg("scheduled task done")
	}

	// run immediately
	go run()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
