package application

import (
	"context"
	"sync"

	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/msg"
)

// Router dispatches wire messages to the service. Writes are serialized against
// each other and against reads so each transition runs to completion alone.
type Router struct {
	mu  sync.RWMutex
	svc *OracleService
}

func NewRouter(svc *OracleService) *Router { return &Router{svc: svc} }

func (r *Router) Instantiate(ctx context.Context, m msg.InstantiateMsg) (msg.Attributes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.svc.Instantiate(ctx, m.AdminAddress)
}

func (r *Router) Migrate(ctx context.Context, m msg.MigrateMsg) (msg.MigrateResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.svc.Migrate(ctx, m.Version)
}

func (r *Router) ContractInfo(ctx context.Context) (domain.ContractInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.svc.GetContractInfo(ctx)
}

func (r *Router) Execute(ctx context.Context, env Env, sender domain.Identity, m msg.ExecuteMsg) (any, error) {
	if _, err := m.Kind(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := m.PostRates
	return r.svc.PostRates(ctx, sender, p.Denom, p.PurchaseRate, p.RedemptionRate, env.Height, env.Time)
}

func (r *Router) Query(ctx context.Context, m msg.QueryMsg) (any, error) {
	kind, err := m.Kind()
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch kind {
	case "config":
		return r.svc.GetConfig(ctx)
	case "purchase_rate":
		return r.svc.GetPurchaseRate(ctx, m.PurchaseRate.Denom, m.PurchaseRate.Params)
	case "redemption_rate":
		return r.svc.GetRedemptionRate(ctx, m.RedemptionRate.Denom, m.RedemptionRate.Params)
	case "historical_purchase_rates":
		q := m.HistoricalPurchaseRates
		return r.svc.GetHistoricalPurchaseRates(ctx, q.Denom, q.Params, q.Limit)
	default:
		q := m.HistoricalRedemptionRates
		return r.svc.GetHistoricalRedemptionRates(ctx, q.Denom, q.Params, q.Limit)
	}
}
