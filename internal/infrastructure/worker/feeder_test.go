package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/msg"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	fail map[string]bool
}

func (s stubSource) Fetch(_ context.Context, denom string) (application.SourceRates, error) {
	if s.fail[denom] {
		return application.SourceRates{}, errors.New("upstream down")
	}
	if denom == "panic" {
		panic("boom")
	}
	return application.SourceRates{Denom: denom, PurchaseRate: "1.5", RedemptionRate: "0.5"}, nil
}

type recPoster struct {
	mu    sync.Mutex
	posts []msg.PostRates
}

func (p *recPoster) PostRates(_ context.Context, m msg.PostRates) (msg.PostRatesAck, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, m)
	return msg.PostRatesAck{Action: "post_rates", Denom: m.Denom, PurchaseRate: m.PurchaseRate,
		RedemptionRate: m.RedemptionRate}, nil
}

func (p *recPoster) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.posts)
}

func TestFeeder_RunOnce(t *testing.T) {
	poster := &recPoster{}
	f := NewFeeder(stubSource{fail: map[string]bool{"bad": true}}, poster,
		[]string{"uatom", "bad", "panic", "uosmo"}, time.Minute, time.Second)

	n := f.RunOnce(context.Background())
	require.Equal(t, 2, n)
	require.Equal(t, []msg.PostRates{
		{Denom: "uatom", PurchaseRate: "1.5", RedemptionRate: "0.5"},
		{Denom: "uosmo", PurchaseRate: "1.5", RedemptionRate: "0.5"},
	}, poster.posts)
}

func TestFeeder_StartStopsOnCancel(t *testing.T) {
	poster := &recPoster{}
	f := NewFeeder(stubSource{}, poster, []string{"uatom"}, 10*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.Start(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return poster.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("feeder did not stop")
	}
}
