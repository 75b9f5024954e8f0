// Package worker runs the background feeder that pushes upstream rates to the oracle.
package worker

import (
	"context"
	"fmt"
	"time"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/infrastructure/logx"
	"rateoracle-service/internal/msg"

	"go.uber.org/zap"
)

var _ application.Worker = (*Feeder)(nil)

// Feeder fetches each denom from Source every Interval and posts the result.
// Failures are logged and the denom is retried on the next tick.
type Feeder struct {
	source   application.RateSource
	poster   application.RatePoster
	denoms   []string
	interval time.Duration
	timeout  time.Duration
}

func NewFeeder(source application.RateSource, poster application.RatePoster, denoms []string,
	interval, timeout time.Duration) *Feeder {
	return &Feeder{source: source, poster: poster, denoms: denoms, interval: interval, timeout: timeout}
}

func (f *Feeder) Start(ctx context.Context) {
	log := logx.L().With(zap.String("worker", "feeder"))
	log.Info("feeder.start", zap.Strings("denoms", f.denoms), zap.Duration("interval", f.interval))
	f.RunOnce(ctx)
	t := time.NewTicker(f.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("feeder.stop")
			return
		case <-t.C:
			f.RunOnce(ctx)
		}
	}
}

// RunOnce feeds every denom once and returns how many were posted.
func (f *Feeder) RunOnce(ctx context.Context) int {
	posted := 0
	for _, denom := range f.denoms {
		if ctx.Err() != nil {
			return posted
		}
		if err := f.feed(ctx, denom); err != nil {
			logx.L().Warn("feeder.denom_failed", zap.String("denom", denom), zap.Error(err))
			continue
		}
		posted++
	}
	return posted
}

func (f *Feeder) feed(ctx context.Context, denom string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	rates, err := f.source.Fetch(ctx, denom)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	ack, err := f.poster.PostRates(ctx, msg.PostRates{
		Denom:          denom,
		PurchaseRate:   rates.PurchaseRate,
		RedemptionRate: rates.RedemptionRate,
	})
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	logx.L().Info("feeder.posted",
		zap.String("denom", ack.Denom),
		zap.String("purchase_rate", ack.PurchaseRate),
		zap.String("redemption_rate", ack.RedemptionRate),
		zap.Uint64("update_time", ack.UpdateTime),
	)
	return nil
}
