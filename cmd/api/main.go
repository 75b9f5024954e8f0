package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"rateoracle-service/internal/bootstrap"
	infraconfig "rateoracle-service/internal/infrastructure/config"
	httpserver "rateoracle-service/internal/infrastructure/http"
	"rateoracle-service/internal/infrastructure/logx"
	"rateoracle-service/internal/version"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, cleanup, err := bootstrap.InitAPI(ctx)
	if err != nil {
		logger.Fatal("bootstrap api", zap.Error(err))
	}
	defer cleanup()

	if err := bootstrap.EnsureInstantiated(ctx, api.Router, api.Config.AdminAddress, logger); err != nil {
		logger.Fatal("bootstrap oracle state", zap.Error(err))
	}

	if api.GRPC != nil {
		go func() {
			if err := api.GRPC(ctx); err != nil {
				logger.Error("grpc server exited", zap.Error(err))
				stop()
			}
		}()
	}

	addr := ":" + api.Config.Port
	server := &http.Server{
		Addr:    addr,
		Handler: httpserver.NewRouter(api.HTTP),
	}
	go func() {
		logger.Info("server started", zap.String("addr", addr), zap.String("version", version.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
