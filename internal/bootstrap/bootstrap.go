// Package bootstrap assembles the oracle processes from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/config"
	"rateoracle-service/internal/domain"
	httpserver "rateoracle-service/internal/infrastructure/http"
	"rateoracle-service/internal/msg"
	"rateoracle-service/internal/version"

	gvers "github.com/hashicorp/go-version"
	"go.uber.org/zap"
)

var (
	ErrMissingDBURL       = errors.New("DATABASE_URL is required for STORAGE=pg")
	ErrUnknownStorage     = errors.New("unknown STORAGE")
	ErrUnknownIdemBackend = errors.New("unknown IDEMPOTENCY_BACKEND")
)

// Stores is the persistence backing selected by STORAGE.
type Stores struct {
	Rates application.RateTable
	State application.StateStore
	UoW   application.UnitOfWork
	Ping  func(ctx context.Context) error
}

// GRPCRunner serves the gRPC API until ctx is done.
type GRPCRunner func(ctx context.Context) error

// API is everything cmd/api runs.
type API struct {
	HTTP   *httpserver.Server
	GRPC   GRPCRunner
	Router *application.Router
	Blocks application.BlockSource
	Config config.Config
	Log    *zap.Logger
}

// EnsureInstantiated instantiates an empty store with ADMIN_ADDRESS and
// migrates an instantiated one whose stored version is older than the binary.
func EnsureInstantiated(ctx context.Context, router *application.Router, admin string, log *zap.Logger) error {
	info, err := router.ContractInfo(ctx)
	switch {
	case errors.Is(err, domain.ErrNotInstantiated):
		if admin == "" {
			log.Warn("oracle.not_instantiated", zap.String("hint", "set ADMIN_ADDRESS or run oraclectl instantiate"))
			return nil
		}
		if _, err := router.Instantiate(ctx, msg.InstantiateMsg{AdminAddress: admin}); err != nil {
			return fmt.Errorf("instantiate: %w", err)
		}
		log.Info("oracle.instantiated", zap.String("admin", admin), zap.String("version", version.Version))
		return nil
	case err != nil:
		return err
	}

	stored, err := gvers.NewVersion(info.Version)
	if err != nil {
		return fmt.Errorf("stored version %q: %w", info.Version, err)
	}
	current, err := gvers.NewVersion(version.Version)
	if err != nil {
		return fmt.Errorf("binary version %q: %w", version.Version, err)
	}
	if !current.GreaterThan(stored) {
		return nil
	}
	resp, err := router.Migrate(ctx, msg.MigrateMsg{Version: version.Version})
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("oracle.migrated", zap.String("from", resp.FromVersion), zap.String("to", resp.ToVersion))
	return nil
}
