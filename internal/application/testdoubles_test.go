package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"rateoracle-service/internal/domain"
)

var (
	ErrRepo = errors.New("repo error")
)

type fakeRateTable struct {
	rows     map[string]map[uint64]domain.RateRecord
	countErr error
}

func newFakeRateTable() *fakeRateTable {
	return &fakeRateTable{rows: map[string]map[uint64]domain.RateRecord{}}
}

func (f *fakeRateTable) Save(_ context.Context, denom string, seq uint64, rec domain.RateRecord) error {
	if f.rows[denom] == nil {
		f.rows[denom] = map[uint64]domain.RateRecord{}
	}
	f.rows[denom][seq] = rec
	return nil
}

func (f *fakeRateTable) Delete(_ context.Context, denom string, seq uint64) error {
	delete(f.rows[denom], seq)
	return nil
}

func (f *fakeRateTable) Count(_ context.Context, denom string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.rows[denom]), nil
}

func (f *fakeRateTable) Scan(_ context.Context, denom string, order Order, limit int) ([]domain.RateEntry, error) {
	seqs := make([]uint64, 0, len(f.rows[denom]))
	for s := range f.rows[denom] {
		seqs = append(seqs, s)
	}
	sort.Slice(seqs, func(i, j int) bool {
		if order == Descending {
			return seqs[i] > seqs[j]
		}
		return seqs[i] < seqs[j]
	})
	if limit >= 0 && limit < len(seqs) {
		seqs = seqs[:limit]
	}
	out := make([]domain.RateEntry, 0, len(seqs))
	for _, s := range seqs {
		out = append(out, domain.RateEntry{Sequence: s, Record: f.rows[denom][s]})
	}
	return out, nil
}

func (f *fakeRateTable) snapshot() map[string]map[uint64]domain.RateRecord {
	cp := make(map[string]map[uint64]domain.RateRecord, len(f.rows))
	for d, m := range f.rows {
		inner := make(map[uint64]domain.RateRecord, len(m))
		for k, v := range m {
			inner[k] = v
		}
		cp[d] = inner
	}
	return cp
}

// snapshotUoW restores the table when fn fails.
type snapshotUoW struct{ table *fakeRateTable }

func (u snapshotUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	saved := u.table.snapshot()
	if err := fn(ctx); err != nil {
		u.table.rows = saved
		return err
	}
	return nil
}

type fakeStateStore struct {
	cfg  *domain.OracleConfig
	info *domain.ContractInfo
	err  error
}

func (f *fakeStateStore) LoadConfig(context.Context) (domain.OracleConfig, error) {
	if f.err != nil {
		return domain.OracleConfig{}, f.err
	}
	if f.cfg == nil {
		return domain.OracleConfig{}, domain.ErrNotInstantiated
	}
	return *f.cfg, nil
}

func (f *fakeStateStore) SaveConfig(_ context.Context, cfg domain.OracleConfig) error {
	if f.err != nil {
		return f.err
	}
	f.cfg = &cfg
	return nil
}

func (f *fakeStateStore) LoadContractInfo(context.Context) (domain.ContractInfo, error) {
	if f.err != nil {
		return domain.ContractInfo{}, f.err
	}
	if f.info == nil {
		return domain.ContractInfo{}, domain.ErrNotInstantiated
	}
	return *f.info, nil
}

func (f *fakeStateStore) SaveContractInfo(_ context.Context, info domain.ContractInfo) error {
	if f.err != nil {
		return f.err
	}
	f.info = &info
	return nil
}

type fakeMetrics struct {
	posted, evicted int
	rejected        map[string]int
}

func (f *fakeMetrics) RatesPosted(string) { f.posted++ }
func (f *fakeMetrics) RateEvicted(string) { f.evicted++ }
func (f *fakeMetrics) RequestRejected(reason string) {
	if f.rejected == nil {
		f.rejected = map[string]int{}
	}
	f.rejected[reason]++
}

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }
