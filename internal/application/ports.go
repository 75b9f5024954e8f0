package application

import (
	"context"

	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/msg"
)

type Order int

const (
	Ascending Order = iota
	Descending
)

// RateTable is an ordered table keyed by (denom, sequence). Implementations
// must join the transaction carried by ctx when called inside UnitOfWork.Do.
type RateTable interface {
	Save(ctx context.Context, denom string, sequence uint64, rec domain.RateRecord) error
	Delete(ctx context.Context, denom string, sequence uint64) error
	Count(ctx context.Context, denom string) (int, error)
	// Scan returns at most limit entries of denom in the given order.
	// A negative limit means no limit.
	Scan(ctx context.Context, denom string, order Order, limit int) ([]domain.RateEntry, error)
}

// StateStore holds the oracle singletons. Load methods return
// domain.ErrNotInstantiated when nothing has been stored yet.
type StateStore interface {
	LoadConfig(ctx context.Context) (domain.OracleConfig, error)
	SaveConfig(ctx context.Context, cfg domain.OracleConfig) error
	LoadContractInfo(ctx context.Context) (domain.ContractInfo, error)
	SaveContractInfo(ctx context.Context, info domain.ContractInfo) error
}

// Metrics receives counters about accepted and rejected requests.
type Metrics interface {
	RatesPosted(denom string)
	RateEvicted(denom string)
	RequestRejected(reason string)
}

type NoopMetrics struct{}

func (NoopMetrics) RatesPosted(string)     {}
func (NoopMetrics) RateEvicted(string)     {}
func (NoopMetrics) RequestRejected(string) {}

// SourceRates is a rate pair as published by an upstream source.
type SourceRates struct {
	Denom          string
	PurchaseRate   string
	RedemptionRate string
}

// RateSource fetches the current rate pair of a denom from upstream.
type RateSource interface {
	Fetch(ctx context.Context, denom string) (SourceRates, error)
}

// RatePoster submits a rate update to an oracle on behalf of the admin.
type RatePoster interface {
	PostRates(ctx context.Context, m msg.PostRates) (msg.PostRatesAck, error)
}
