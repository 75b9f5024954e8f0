//go:build wireinject

package bootstrap

import (
	"context"

	"rateoracle-service/internal/application"

	"github.com/google/wire"
)

var oracleSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvideStores,
	ProvideMetrics,
	ProvideOracleService,
	application.NewRouter,
)

// InitAPI builds the HTTP and gRPC front ends over the configured store.
func InitAPI(ctx context.Context) (*API, func(), error) {
	wire.Build(
		oracleSet,
		ProvideBlockSource,
		ProvideIdempotency,
		ProvideHTTPServer,
		ProvideGRPCRunner,
		ProvideAPI,
	)
	return nil, nil, nil
}

// InitRouter opens the configured store for local admin commands.
func InitRouter(ctx context.Context) (*application.Router, func(), error) {
	wire.Build(oracleSet)
	return nil, nil, nil
}

// InitFeeder builds the feeder worker posting through the gRPC client.
func InitFeeder(ctx context.Context) (application.Worker, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideConfig,
		ProvideFeederConfig,
		ProvideRateSource,
		ProvideOracleClient,
		ProvideRatePoster,
		ProvideFeeder,
		ProvideWorker,
	)
	return nil, nil, nil
}
