package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/msg"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	adminAddress = "my_address"
	testDenom    = "factory/denom"
	t1           = int64(1571797419)
	t2           = int64(1571797469)
)

func newTestService(t *testing.T) (*OracleService, *fakeRateTable, *fakeStateStore, *fakeMetrics) {
	t.Helper()
	table := newFakeRateTable()
	state := &fakeStateStore{}
	m := &fakeMetrics{}
	svc := NewOracleService(table, state,
		WithUnitOfWork(snapshotUoW{table: table}),
		WithMetrics(m),
		WithVersion("0.1.0"),
	)
	_, err := svc.Instantiate(context.Background(), adminAddress)
	require.NoError(t, err)
	return svc, table, state, m
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func Test_Instantiate(t *testing.T) {
	t.Parallel()
	svc, _, state, _ := newTestService(t)

	cfg, err := svc.GetConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, adminAddress, cfg.AdminAddress)
	require.Equal(t, domain.ContractInfo{Contract: domain.ContractName, Version: "0.1.0"}, *state.info)

	_, err = svc.Instantiate(context.Background(), "other")
	require.ErrorIs(t, err, domain.ErrAlreadyInstantiated)
	require.Equal(t, domain.Identity(adminAddress), state.cfg.AdminAddress)
}

func Test_Instantiate_InvalidAddress(t *testing.T) {
	t.Parallel()
	svc := NewOracleService(newFakeRateTable(), &fakeStateStore{})
	_, err := svc.Instantiate(context.Background(), "not an address")
	require.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func Test_PostRates_Ack(t *testing.T) {
	t.Parallel()
	svc, _, _, m := newTestService(t)

	ack, err := svc.PostRates(context.Background(), adminAddress, testDenom, "0.9", "1.1", 12345, time.Unix(t1, 0))
	require.NoError(t, err)
	require.Equal(t, msg.PostRatesAck{
		Action:         "post_rates",
		Denom:          testDenom,
		PurchaseRate:   "0.9",
		RedemptionRate: "1.1",
		UpdateTime:     uint64(t1),
	}, ack)
	require.Equal(t, 1, m.posted)

	pr, err := svc.GetPurchaseRate(context.Background(), testDenom, nil)
	require.NoError(t, err)
	require.True(t, dec("0.9").Equal(pr.PurchaseRate))
	require.Equal(t, uint64(t1), pr.UpdateTime)

	rr, err := svc.GetRedemptionRate(context.Background(), testDenom, nil)
	require.NoError(t, err)
	require.True(t, dec("1.1").Equal(rr.RedemptionRate))
	require.Equal(t, uint64(t1), rr.UpdateTime)
}

func Test_PostRates_History(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.PostRates(ctx, adminAddress, testDenom, "0.9", "1.1", 12345, time.Unix(t1, 0))
	require.NoError(t, err)
	_, err = svc.PostRates(ctx, adminAddress, testDenom, "0.8", "1.2", 12355, time.Unix(t2, 0))
	require.NoError(t, err)

	pr, err := svc.GetPurchaseRate(ctx, testDenom, nil)
	require.NoError(t, err)
	require.Equal(t, "0.8", pr.PurchaseRate.String())
	require.Equal(t, uint64(t2), pr.UpdateTime)

	hp, err := svc.GetHistoricalPurchaseRates(ctx, testDenom, nil, nil)
	require.NoError(t, err)
	require.Len(t, hp.PurchaseRates, 2)
	require.Equal(t, testDenom, hp.PurchaseRates[0].Denom)
	require.Equal(t, "0.8", hp.PurchaseRates[0].PurchaseRate.String())
	require.Equal(t, uint64(t2), hp.PurchaseRates[0].UpdateTime)
	require.Equal(t, "0.9", hp.PurchaseRates[1].PurchaseRate.String())
	require.Equal(t, uint64(t1), hp.PurchaseRates[1].UpdateTime)

	hr, err := svc.GetHistoricalRedemptionRates(ctx, testDenom, nil, nil)
	require.NoError(t, err)
	require.Len(t, hr.RedemptionRates, 2)
	require.Equal(t, "1.2", hr.RedemptionRates[0].RedemptionRate.String())
	require.Equal(t, uint64(t2), hr.RedemptionRates[0].UpdateTime)
	require.Equal(t, "1.1", hr.RedemptionRates[1].RedemptionRate.String())
	require.Equal(t, uint64(t1), hr.RedemptionRates[1].UpdateTime)

	one := uint64(1)
	hp, err = svc.GetHistoricalPurchaseRates(ctx, testDenom, nil, &one)
	require.NoError(t, err)
	require.Len(t, hp.PurchaseRates, 1)
	require.Equal(t, "0.8", hp.PurchaseRates[0].PurchaseRate.String())
}

func Test_PostRates_Unauthorized_LeavesStateUntouched(t *testing.T) {
	t.Parallel()
	svc, table, state, m := newTestService(t)
	ctx := context.Background()
	_, err := svc.PostRates(ctx, adminAddress, testDenom, "0.9", "1.1", 1, time.Unix(t1, 0))
	require.NoError(t, err)

	beforeRows := table.snapshot()
	beforeCfg := *state.cfg

	_, err = svc.PostRates(ctx, "intruder", testDenom, "5", "5", 2, time.Unix(t2, 0))
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	require.Equal(t, beforeRows, table.rows)
	require.Equal(t, beforeCfg, *state.cfg)
	require.Equal(t, 1, m.rejected["unauthorized"])
}

func Test_PostRates_MalformedRate_NoStateChange(t *testing.T) {
	t.Parallel()
	svc, table, _, _ := newTestService(t)

	_, err := svc.PostRates(context.Background(), adminAddress, testDenom, "abc", "1.1", 1, time.Unix(t1, 0))
	require.ErrorIs(t, err, domain.ErrMalformedRate)
	require.Contains(t, err.Error(), "purchase_rate")

	_, err = svc.PostRates(context.Background(), adminAddress, testDenom, "0.9", "-1", 1, time.Unix(t1, 0))
	require.ErrorIs(t, err, domain.ErrMalformedRate)
	require.Contains(t, err.Error(), "redemption_rate")
	require.Empty(t, table.rows[testDenom])
}

func Test_PostRates_EmptyDenom(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)
	_, err := svc.PostRates(context.Background(), adminAddress, "", "0.9", "1.1", 1, time.Unix(t1, 0))
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func Test_PostRates_NotInstantiated(t *testing.T) {
	t.Parallel()
	svc := NewOracleService(newFakeRateTable(), &fakeStateStore{})
	_, err := svc.PostRates(context.Background(), adminAddress, testDenom, "0.9", "1.1", 1, time.Unix(t1, 0))
	require.ErrorIs(t, err, domain.ErrNotInstantiated)
}

func Test_PostRates_StoreFailureRollsBack(t *testing.T) {
	t.Parallel()
	svc, table, _, m := newTestService(t)
	table.countErr = ErrRepo

	_, err := svc.PostRates(context.Background(), adminAddress, testDenom, "0.9", "1.1", 1, time.Unix(t1, 0))
	require.ErrorIs(t, err, ErrRepo)
	require.Empty(t, table.rows[testDenom])
	require.Zero(t, m.posted)
}

func Test_PostRates_BoundedHistory(t *testing.T) {
	t.Parallel()
	svc, table, _, m := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= domain.MaxHistory+1; i++ {
		_, err := svc.PostRates(ctx, adminAddress, testDenom, fmt.Sprintf("%d", i), "1", uint64(i*10), time.Unix(t1+int64(i), 0))
		require.NoError(t, err)
		require.LessOrEqual(t, len(table.rows[testDenom]), domain.MaxHistory)
	}
	require.Len(t, table.rows[testDenom], domain.MaxHistory)
	require.Equal(t, 1, m.evicted)
	require.NotContains(t, table.rows[testDenom], uint64(10))

	hp, err := svc.GetHistoricalPurchaseRates(ctx, testDenom, nil, nil)
	require.NoError(t, err)
	require.Len(t, hp.PurchaseRates, domain.MaxHistory)
	require.Equal(t, "101", hp.PurchaseRates[0].PurchaseRate.String())
	// oldest remaining is the write with the second smallest sequence
	require.Equal(t, "2", hp.PurchaseRates[domain.MaxHistory-1].PurchaseRate.String())
}

func Test_PostRates_OutOfOrderMinimumIsEvictedImmediately(t *testing.T) {
	t.Parallel()
	svc, table, _, _ := newTestService(t)
	ctx := context.Background()
	for i := 1; i <= domain.MaxHistory; i++ {
		_, err := svc.PostRates(ctx, adminAddress, testDenom, "1", "1", uint64(100+i), time.Unix(t1, 0))
		require.NoError(t, err)
	}
	_, err := svc.PostRates(ctx, adminAddress, testDenom, "2", "2", 5, time.Unix(t2, 0))
	require.NoError(t, err)
	require.Len(t, table.rows[testDenom], domain.MaxHistory)
	require.NotContains(t, table.rows[testDenom], uint64(5))
	require.Contains(t, table.rows[testDenom], uint64(101))
}

func Test_PostRates_OverwriteSameSequence(t *testing.T) {
	t.Parallel()
	svc, table, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.PostRates(ctx, adminAddress, testDenom, "0.9", "1.1", 7, time.Unix(t1, 0))
	require.NoError(t, err)
	_, err = svc.PostRates(ctx, adminAddress, testDenom, "0.7", "1.3", 7, time.Unix(t2, 0))
	require.NoError(t, err)
	require.Len(t, table.rows[testDenom], 1)

	pr, err := svc.GetPurchaseRate(ctx, testDenom, nil)
	require.NoError(t, err)
	require.Equal(t, "0.7", pr.PurchaseRate.String())
	require.Equal(t, uint64(t2), pr.UpdateTime)
}

func Test_Latest_IsMaxSequence(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.PostRates(ctx, adminAddress, testDenom, "0.5", "1", 50, time.Unix(t2, 0))
	require.NoError(t, err)
	_, err = svc.PostRates(ctx, adminAddress, testDenom, "0.3", "1", 30, time.Unix(t1, 0))
	require.NoError(t, err)

	pr, err := svc.GetPurchaseRate(ctx, testDenom, nil)
	require.NoError(t, err)
	require.Equal(t, "0.5", pr.PurchaseRate.String())
}

func Test_Queries_NotFoundAndEmptyHistory(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetPurchaseRate(ctx, testDenom, nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Contains(t, err.Error(), "purchase rate not found")

	_, err = svc.GetRedemptionRate(ctx, testDenom, nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Contains(t, err.Error(), "redemption rate not found")

	hp, err := svc.GetHistoricalPurchaseRates(ctx, testDenom, nil, nil)
	require.NoError(t, err)
	require.Empty(t, hp.PurchaseRates)

	hr, err := svc.GetHistoricalRedemptionRates(ctx, testDenom, nil, nil)
	require.NoError(t, err)
	require.Empty(t, hr.RedemptionRates)
}

func Test_Queries_RejectParams(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.PostRates(ctx, adminAddress, testDenom, "0.9", "1.1", 1, time.Unix(t1, 0))
	require.NoError(t, err)
	params := []byte(`"test"`)

	for _, d := range []string{testDenom, "missing"} {
		_, err = svc.GetPurchaseRate(ctx, d, params)
		require.ErrorIs(t, err, domain.ErrInvalidRequest)
		_, err = svc.GetRedemptionRate(ctx, d, params)
		require.ErrorIs(t, err, domain.ErrInvalidRequest)
		_, err = svc.GetHistoricalPurchaseRates(ctx, d, params, nil)
		require.ErrorIs(t, err, domain.ErrInvalidRequest)
		_, err = svc.GetHistoricalRedemptionRates(ctx, d, params, nil)
		require.ErrorIs(t, err, domain.ErrInvalidRequest)
	}
}

func Test_GetConfig_StoreError(t *testing.T) {
	t.Parallel()
	svc := NewOracleService(newFakeRateTable(), &fakeStateStore{err: ErrRepo})
	_, err := svc.GetConfig(context.Background())
	require.ErrorIs(t, err, ErrRepo)
}
