package main

import (
	"context"
	"os/signal"
	"syscall"

	"rateoracle-service/internal/bootstrap"
	"rateoracle-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run, cleanup, err := bootstrap.InitWorkerApp(ctx)
	if err != nil {
		log.Fatal("init feeder", zap.Error(err))
	}
	defer cleanup()
	if err := run(ctx); err != nil {
		log.Error("feeder exited", zap.Error(err))
	}
}
