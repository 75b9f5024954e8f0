package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/msg"

	"go.uber.org/zap"
)

type OracleService struct {
	ledger  *RateLedger
	state   StateStore
	uow     UnitOfWork
	metrics Metrics
	log     *zap.Logger
	version string
}

type Option func(*OracleService)

func WithMetrics(m Metrics) Option       { return func(s *OracleService) { s.metrics = m } }
func WithLogger(l *zap.Logger) Option    { return func(s *OracleService) { s.log = l } }
func WithVersion(v string) Option        { return func(s *OracleService) { s.version = v } }
func WithUnitOfWork(u UnitOfWork) Option { return func(s *OracleService) { s.uow = u } }

func NewOracleService(rates RateTable, state StateStore, opts ...Option) *OracleService {
	s := &OracleService{
		ledger: NewRateLedger(rates),
		state:  state,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.uow == nil {
		s.uow = NoopUoW{}
	}
	if s.metrics == nil {
		s.metrics = NoopMetrics{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.version == "" {
		s.version = "0.0.0"
	}
	return s
}

// Instantiate stores the admin and the contract identity. It can run only once.
func (s *OracleService) Instantiate(ctx context.Context, admin string) (msg.Attributes, error) {
	id, err := domain.ValidateIdentity(admin)
	if err != nil {
		return msg.Attributes{}, err
	}
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		_, err := s.state.LoadConfig(ctx)
		switch {
		case err == nil:
			return domain.ErrAlreadyInstantiated
		case !errors.Is(err, domain.ErrNotInstantiated):
			return err
		}
		if err := s.state.SaveContractInfo(ctx, domain.ContractInfo{
			Contract: domain.ContractName,
			Version:  s.version,
		}); err != nil {
			return err
		}
		return s.state.SaveConfig(ctx, domain.OracleConfig{AdminAddress: id})
	})
	if err != nil {
		return msg.Attributes{}, err
	}
	s.log.Info("instantiate.done", zap.String("admin_address", admin), zap.String("version", s.version))
	return msg.Attributes{Action: "instantiate", AdminAddress: admin}, nil
}

// PostRates records a rate pair for denom at sequence. Nothing is written
// unless both rates parse and the caller is the admin.
func (s *OracleService) PostRates(ctx context.Context, caller domain.Identity, denom, purchaseRate, redemptionRate string,
	sequence uint64, now time.Time) (msg.PostRatesAck, error) {
	log := s.log.With(zap.String("denom", denom), zap.Uint64("sequence", sequence), zap.String("sender", caller.String()))
	if denom == "" {
		s.metrics.RequestRejected("invalid_request")
		return msg.PostRatesAck{}, fmt.Errorf("%w: denom is required", domain.ErrInvalidRequest)
	}
	purchase, err := domain.ParseRate("purchase_rate", purchaseRate)
	if err != nil {
		s.metrics.RequestRejected("malformed_rate")
		return msg.PostRatesAck{}, err
	}
	redemption, err := domain.ParseRate("redemption_rate", redemptionRate)
	if err != nil {
		s.metrics.RequestRejected("malformed_rate")
		return msg.PostRatesAck{}, err
	}
	cfg, err := s.state.LoadConfig(ctx)
	if err != nil {
		return msg.PostRatesAck{}, err
	}
	if err := Authorize(caller, cfg); err != nil {
		log.Warn("post_rates.unauthorized")
		s.metrics.RequestRejected("unauthorized")
		return msg.PostRatesAck{}, err
	}

	rec := domain.RateRecord{
		PurchaseRate:   purchase,
		RedemptionRate: redemption,
		UpdateTime:     unixSeconds(now),
	}
	var evicted *uint64
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.ledger.Append(ctx, denom, sequence, rec); err != nil {
			return fmt.Errorf("append rates: %w", err)
		}
		var err error
		evicted, err = s.ledger.Prune(ctx, denom)
		if err != nil {
			return fmt.Errorf("prune rates: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("post_rates.failed", zap.Error(err))
		return msg.PostRatesAck{}, err
	}
	s.metrics.RatesPosted(denom)
	if evicted != nil {
		s.metrics.RateEvicted(denom)
		log.Info("post_rates.evicted", zap.Uint64("evicted_sequence", *evicted))
	}
	log.Info("post_rates.accepted",
		zap.String("purchase_rate", purchase.String()),
		zap.String("redemption_rate", redemption.String()),
	)
	return msg.PostRatesAck{
		Action:         "post_rates",
		Denom:          denom,
		PurchaseRate:   purchase.String(),
		RedemptionRate: redemption.String(),
		UpdateTime:     rec.UpdateTime,
	}, nil
}

func (s *OracleService) GetConfig(ctx context.Context) (msg.ConfigResponse, error) {
	cfg, err := s.state.LoadConfig(ctx)
	if err != nil {
		return msg.ConfigResponse{}, err
	}
	return msg.ConfigResponse{AdminAddress: cfg.AdminAddress.String()}, nil
}

func (s *OracleService) GetPurchaseRate(ctx context.Context, denom string, params []byte) (msg.PurchaseRateResponse, error) {
	rec, err := s.latest(ctx, denom, params, "purchase rate")
	if err != nil {
		return msg.PurchaseRateResponse{}, err
	}
	return msg.PurchaseRateResponse{PurchaseRate: rec.PurchaseRate, UpdateTime: rec.UpdateTime}, nil
}

func (s *OracleService) GetRedemptionRate(ctx context.Context, denom string, params []byte) (msg.RedemptionRateResponse, error) {
	rec, err := s.latest(ctx, denom, params, "redemption rate")
	if err != nil {
		return msg.RedemptionRateResponse{}, err
	}
	return msg.RedemptionRateResponse{RedemptionRate: rec.RedemptionRate, UpdateTime: rec.UpdateTime}, nil
}

func (s *OracleService) GetHistoricalPurchaseRates(ctx context.Context, denom string, params []byte,
	limit *uint64) (msg.HistoricalPurchaseRatesResponse, error) {
	recs, err := s.history(ctx, denom, params, limit)
	if err != nil {
		return msg.HistoricalPurchaseRatesResponse{}, err
	}
	out := msg.HistoricalPurchaseRatesResponse{PurchaseRates: make([]msg.PurchaseRate, 0, len(recs))}
	for _, r := range recs {
		out.PurchaseRates = append(out.PurchaseRates, msg.PurchaseRate{
			Denom:        denom,
			PurchaseRate: r.PurchaseRate,
			UpdateTime:   r.UpdateTime,
		})
	}
	return out, nil
}

func (s *OracleService) GetHistoricalRedemptionRates(ctx context.Context, denom string, params []byte,
	limit *uint64) (msg.HistoricalRedemptionRatesResponse, error) {
	recs, err := s.history(ctx, denom, params, limit)
	if err != nil {
		return msg.HistoricalRedemptionRatesResponse{}, err
	}
	out := msg.HistoricalRedemptionRatesResponse{RedemptionRates: make([]msg.RedemptionRate, 0, len(recs))}
	for _, r := range recs {
		out.RedemptionRates = append(out.RedemptionRates, msg.RedemptionRate{
			Denom:          denom,
			RedemptionRate: r.RedemptionRate,
			UpdateTime:     r.UpdateTime,
		})
	}
	return out, nil
}

func (s *OracleService) latest(ctx context.Context, denom string, params []byte, what string) (domain.RateRecord, error) {
	if err := ValidateExtensionParams(params); err != nil {
		s.metrics.RequestRejected("invalid_request")
		return domain.RateRecord{}, err
	}
	rec, ok, err := s.ledger.Latest(ctx, denom)
	if err != nil {
		return domain.RateRecord{}, err
	}
	if !ok {
		return domain.RateRecord{}, fmt.Errorf("%s not found for denom %q: %w", what, denom, domain.ErrNotFound)
	}
	return rec, nil
}

func (s *OracleService) history(ctx context.Context, denom string, params []byte, limit *uint64) ([]domain.RateRecord, error) {
	if err := ValidateExtensionParams(params); err != nil {
		s.metrics.RequestRejected("invalid_request")
		return nil, err
	}
	return s.ledger.Range(ctx, denom, limit)
}
