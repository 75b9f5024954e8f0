package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/config"
	boltstore "rateoracle-service/internal/infrastructure/bolt"
	"rateoracle-service/internal/infrastructure/grpc/oracleclient"
	"rateoracle-service/internal/infrastructure/grpc/oracleserver"
	httpserver "rateoracle-service/internal/infrastructure/http"
	"rateoracle-service/internal/infrastructure/httpx"
	"rateoracle-service/internal/infrastructure/logx"
	"rateoracle-service/internal/infrastructure/memstore"
	"rateoracle-service/internal/infrastructure/metrics"
	"rateoracle-service/internal/infrastructure/pg"
	"rateoracle-service/internal/infrastructure/provider"
	redisstore "rateoracle-service/internal/infrastructure/redis"
	"rateoracle-service/internal/infrastructure/worker"
	"rateoracle-service/internal/version"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideStores(ctx context.Context, log *zap.Logger, cfg config.Config) (Stores, func(), error) {
	switch cfg.Storage {
	case "bolt":
		db, err := boltstore.Open(cfg.BoltPath)
		if err != nil {
			return Stores{}, func() {}, fmt.Errorf("open bolt %s: %w", cfg.BoltPath, err)
		}
		cleanup := func() {
			log.Info("closing bolt")
			_ = db.Close()
		}
		return Stores{
			Rates: boltstore.NewRateTable(db),
			State: boltstore.NewStateStore(db),
			UoW:   &boltstore.UnitOfWork{DB: db},
			Ping:  db.Ping,
		}, cleanup, nil
	case "pg":
		if cfg.DatabaseURL == "" {
			return Stores{}, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Stores{}, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return Stores{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return Stores{
			Rates: pg.NewRateTable(db),
			State: pg.NewStateStore(db),
			UoW:   &pg.UnitOfWork{Pool: db.Pool},
			Ping:  db.Ping,
		}, cleanup, nil
	case "memory":
		s := memstore.New()
		return Stores{Rates: s, State: s, UoW: s, Ping: s.Ping}, func() {}, nil
	default:
		return Stores{}, func() {}, fmt.Errorf("%w %q", ErrUnknownStorage, cfg.Storage)
	}
}

// ProvideMetrics returns nil when METRICS_ENABLED is false.
func ProvideMetrics(cfg config.Config) *metrics.Recorder {
	if !cfg.MetricsEnabled {
		return nil
	}
	return metrics.NewRecorder()
}

func ProvideOracleService(s Stores, m *metrics.Recorder) *application.OracleService {
	opts := []application.Option{
		application.WithUnitOfWork(s.UoW),
		application.WithLogger(logx.Component("oracle")),
		application.WithVersion(version.Version),
	}
	if m != nil {
		opts = append(opts, application.WithMetrics(m))
	}
	return application.NewOracleService(s.Rates, s.State, opts...)
}

func ProvideBlockSource() application.BlockSource { return application.NewClockBlocks(nil) }

func ProvideIdempotency(cfg config.Config) (application.IdempotencyStore, func(), error) {
	switch cfg.IdempotencyBackend {
	case "", "none":
		return application.NoopIdempotency{}, func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return redisstore.New(client, cfg.RedisTTL), func() { _ = client.Close() }, nil
	default:
		return nil, func() {}, fmt.Errorf("%w %q", ErrUnknownIdemBackend, cfg.IdempotencyBackend)
	}
}

func ProvideHTTPServer(router *application.Router, blocks application.BlockSource, idem application.IdempotencyStore,
	m *metrics.Recorder, s Stores, cfg config.Config) *httpserver.Server {
	opts := []httpserver.Option{
		httpserver.WithIdempotency(idem),
		httpserver.WithWriteLimit(cfg.WriteRPS, cfg.WriteBurst),
		httpserver.WithRequestTimeout(cfg.RequestTimeout),
	}
	if m != nil {
		opts = append(opts, httpserver.WithMetrics(m))
	}
	srv := httpserver.NewServer(router, blocks, opts...)
	srv.SetReadyCheck(s.Ping)
	return srv
}

// ProvideGRPCRunner returns nil when GRPC_ADDR is "off".
func ProvideGRPCRunner(router *application.Router, blocks application.BlockSource, log *zap.Logger,
	cfg config.Config) GRPCRunner {
	if cfg.GRPCAddr == "off" {
		return nil
	}
	srv := oracleserver.NewServer(router, blocks, log.With(zap.String("component", "grpc")))
	return func(ctx context.Context) error {
		return oracleserver.RunServer(ctx, cfg.GRPCAddr, srv, log)
	}
}

func ProvideAPI(srv *httpserver.Server, grpc GRPCRunner, router *application.Router, blocks application.BlockSource,
	cfg config.Config, log *zap.Logger) *API {
	return &API{HTTP: srv, GRPC: grpc, Router: router, Blocks: blocks, Config: cfg, Log: log}
}

func ProvideFeederConfig(cfg config.Config) (*config.FeederConfig, error) {
	return config.LoadFeederAndValidate(cfg.FeederConfig)
}

func ProvideRateSource(fc *config.FeederConfig, log *zap.Logger) application.RateSource {
	if fc.Source.Kind == config.SourceFake {
		return provider.NewFake(fc.Source.PurchaseRate, fc.Source.RedemptionRate)
	}
	return &provider.HTTPSource{
		BaseURL: fc.Source.BaseURL,
		Client:  &httpx.Client{HTTP: &http.Client{Timeout: fc.Timeout}, Token: fc.Source.Token},
		Log:     log.Sugar(),
	}
}

func ProvideOracleClient(ctx context.Context, cfg config.Config) (*oracleclient.Client, func(), error) {
	c, cleanup, err := oracleclient.New(ctx, cfg.GRPCTarget, cfg.Sender, cfg.RequestTimeout)
	if err != nil {
		return nil, func() {}, err
	}
	return c, cleanup, nil
}

func ProvideRatePoster(c *oracleclient.Client) application.RatePoster { return c }

func ProvideFeeder(src application.RateSource, poster application.RatePoster, fc *config.FeederConfig) *worker.Feeder {
	return worker.NewFeeder(src, poster, fc.Denoms, fc.Interval, fc.Timeout)
}

func ProvideWorker(f *worker.Feeder) application.Worker { return f }
