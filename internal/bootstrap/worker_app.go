package bootstrap

import (
	"context"
	"fmt"
)

type WorkerApp func(ctx context.Context) error

// InitWorkerApp wraps the feeder into a runner that blocks until ctx is done.
func InitWorkerApp(ctx context.Context) (WorkerApp, func(), error) {
	w, cleanup, err := InitFeeder(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init feeder: %w", err)
	}
	runner := func(ctx context.Context) error {
		w.Start(ctx)
		return nil
	}
	return runner, cleanup, nil
}
