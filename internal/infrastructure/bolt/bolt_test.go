package boltstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "oracle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func rec(p string, ts uint64) domain.RateRecord {
	return domain.RateRecord{
		PurchaseRate:   decimal.RequireFromString(p),
		RedemptionRate: decimal.RequireFromString("1.1"),
		UpdateTime:     ts,
	}
}

func TestOpen(t *testing.T) {
	t.Run("Init", func(t *testing.T) {
		db := openTestDB(t)
		require.NoError(t, db.Ping(context.Background()))
	})

	t.Run("Init should fail", func(t *testing.T) {
		_, err := Open("")
		require.Error(t, err)
	})
}

func TestRateTable_OrderedScan(t *testing.T) {
	db := openTestDB(t)
	table := NewRateTable(db)
	ctx := context.Background()

	// sequences above 255 make sure ordering is numeric, not lexical
	for _, seq := range []uint64{300, 2, 70000, 1} {
		require.NoError(t, table.Save(ctx, "factory/denom", seq, rec("0.9", seq)))
	}
	require.NoError(t, table.Save(ctx, "other", 5, rec("0.1", 5)))

	n, err := table.Count(ctx, "factory/denom")
	require.NoError(t, err)
	require.Equal(t, 4, n)

	asc, err := table.Scan(ctx, "factory/denom", application.Ascending, -1)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 300, 70000}, sequences(asc))

	desc, err := table.Scan(ctx, "factory/denom", application.Descending, 2)
	require.NoError(t, err)
	require.Equal(t, []uint64{70000, 300}, sequences(desc))

	none, err := table.Scan(ctx, "factory/denom", application.Descending, 0)
	require.NoError(t, err)
	require.Empty(t, none)

	require.NoError(t, table.Delete(ctx, "factory/denom", 1))
	require.NoError(t, table.Delete(ctx, "missing", 1))
	n, err = table.Count(ctx, "factory/denom")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = table.Count(ctx, "missing")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRateTable_DecimalRoundTrip(t *testing.T) {
	db := openTestDB(t)
	table := NewRateTable(db)
	ctx := context.Background()

	require.NoError(t, table.Save(ctx, "d", 1, rec("0.123456789012345678", 9)))
	got, err := table.Scan(ctx, "d", application.Descending, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "0.123456789012345678", got[0].Record.PurchaseRate.String())
	require.Equal(t, uint64(9), got[0].Record.UpdateTime)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	table := NewRateTable(db)
	uow := &UnitOfWork{DB: db}
	ctx := context.Background()
	boom := errors.New("boom")

	err := uow.Do(ctx, func(ctx context.Context) error {
		require.NoError(t, table.Save(ctx, "d", 1, rec("0.9", 1)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := table.Count(ctx, "d")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestStateStore(t *testing.T) {
	db := openTestDB(t)
	store := NewStateStore(db)
	ctx := context.Background()

	_, err := store.LoadConfig(ctx)
	require.ErrorIs(t, err, domain.ErrNotInstantiated)
	_, err = store.LoadContractInfo(ctx)
	require.ErrorIs(t, err, domain.ErrNotInstantiated)

	require.NoError(t, store.SaveConfig(ctx, domain.OracleConfig{AdminAddress: "my_address"}))
	require.NoError(t, store.SaveContractInfo(ctx, domain.ContractInfo{Contract: domain.ContractName, Version: "0.1.0"}))

	cfg, err := store.LoadConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Identity("my_address"), cfg.AdminAddress)
	info, err := store.LoadContractInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, "0.1.0", info.Version)
}

func TestOracleService_OnBolt(t *testing.T) {
	db := openTestDB(t)
	svc := application.NewOracleService(NewRateTable(db), NewStateStore(db),
		application.WithUnitOfWork(&UnitOfWork{DB: db}))
	ctx := context.Background()
	_, err := svc.Instantiate(ctx, "my_address")
	require.NoError(t, err)

	for i := 1; i <= domain.MaxHistory+1; i++ {
		_, err := svc.PostRates(ctx, "my_address", "factory/denom", "0.9", "1.1", uint64(i), time.Unix(1571797419, 0))
		require.NoError(t, err)
	}
	n, err := NewRateTable(db).Count(ctx, "factory/denom")
	require.NoError(t, err)
	require.Equal(t, domain.MaxHistory, n)

	oldest, err := NewRateTable(db).Scan(ctx, "factory/denom", application.Ascending, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(2), oldest[0].Sequence)
}

func sequences(entries []domain.RateEntry) []uint64 {
	out := make([]uint64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Sequence)
	}
	return out
}
