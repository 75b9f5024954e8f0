package application

import (
	"context"
	"testing"
	"time"

	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/msg"

	"github.com/stretchr/testify/require"
)

func Test_Router_ExecuteAndQuery(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)
	r := NewRouter(svc)
	ctx := context.Background()

	env := Env{Height: 12345, Time: time.Unix(t1, 0)}
	out, err := r.Execute(ctx, env, adminAddress, msg.ExecuteMsg{PostRates: &msg.PostRates{
		Denom: testDenom, PurchaseRate: "0.9", RedemptionRate: "1.1",
	}})
	require.NoError(t, err)
	ack, ok := out.(msg.PostRatesAck)
	require.True(t, ok)
	require.Equal(t, uint64(t1), ack.UpdateTime)

	out, err = r.Query(ctx, msg.QueryMsg{PurchaseRate: &msg.RateQuery{Denom: testDenom}})
	require.NoError(t, err)
	require.Equal(t, "0.9", out.(msg.PurchaseRateResponse).PurchaseRate.String())

	out, err = r.Query(ctx, msg.QueryMsg{Config: &msg.ConfigQuery{}})
	require.NoError(t, err)
	require.Equal(t, msg.ConfigResponse{AdminAddress: adminAddress}, out)

	out, err = r.Query(ctx, msg.QueryMsg{HistoricalRedemptionRates: &msg.HistoricalQuery{Denom: testDenom}})
	require.NoError(t, err)
	require.Len(t, out.(msg.HistoricalRedemptionRatesResponse).RedemptionRates, 1)
}

func Test_Router_RejectsUnknownMessages(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)
	r := NewRouter(svc)

	_, err := r.Execute(context.Background(), Env{}, adminAddress, msg.ExecuteMsg{})
	require.ErrorIs(t, err, domain.ErrUnknownMessage)

	_, err = r.Query(context.Background(), msg.QueryMsg{})
	require.ErrorIs(t, err, domain.ErrUnknownMessage)
}

func Test_Router_InstantiateAndMigrate(t *testing.T) {
	t.Parallel()
	state := &fakeStateStore{}
	r := NewRouter(NewOracleService(newFakeRateTable(), state, WithVersion("0.1.0")))
	ctx := context.Background()

	attrs, err := r.Instantiate(ctx, msg.InstantiateMsg{AdminAddress: adminAddress})
	require.NoError(t, err)
	require.Equal(t, msg.Attributes{Action: "instantiate", AdminAddress: adminAddress}, attrs)

	_, err = r.Migrate(ctx, msg.MigrateMsg{Version: "0.1.0"})
	require.ErrorIs(t, err, domain.ErrInvalidVersionTransition)

	resp, err := r.Migrate(ctx, msg.MigrateMsg{Version: "0.2.0"})
	require.NoError(t, err)
	require.Equal(t, "0.2.0", resp.ToVersion)
}

func Test_ClockBlocks_StrictlyIncreasing(t *testing.T) {
	t.Parallel()
	now := time.Unix(t1, 0)
	b := NewClockBlocks(fakeClock{t: now})

	first := b.Next()
	second := b.Next()
	require.Equal(t, uint64(now.UnixNano()), first.Height)
	require.Equal(t, first.Height+1, second.Height)
	require.Equal(t, now, second.Time)
}
