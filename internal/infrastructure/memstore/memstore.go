// Package memstore is a process-local implementation of the oracle stores.
// It backs STORAGE=memory and the transport tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/domain"
)

var (
	_ application.RateTable  = (*Store)(nil)
	_ application.StateStore = (*Store)(nil)
	_ application.UnitOfWork = (*Store)(nil)
)

type Store struct {
	mu    sync.Mutex
	rates map[string][]domain.RateEntry // ascending by sequence
	cfg   *domain.OracleConfig
	info  *domain.ContractInfo
}

func New() *Store {
	return &Store{rates: map[string][]domain.RateEntry{}}
}

type undoKey struct{}

type undoLog struct{ steps []func() }

// Do records an undo step for every mutation made through ctx and replays
// them in reverse when fn fails.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(undoKey{}).(*undoLog); nested {
		return fn(ctx)
	}
	log := &undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, log)); err != nil {
		s.mu.Lock()
		for i := len(log.steps) - 1; i >= 0; i-- {
			log.steps[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// remember must be called with s.mu held.
func (s *Store) remember(ctx context.Context, denom string) {
	log, ok := ctx.Value(undoKey{}).(*undoLog)
	if !ok {
		return
	}
	prev, existed := s.rates[denom]
	saved := append([]domain.RateEntry(nil), prev...)
	log.steps = append(log.steps, func() {
		if existed {
			s.rates[denom] = saved
		} else {
			delete(s.rates, denom)
		}
	})
}

func (s *Store) Save(ctx context.Context, denom string, seq uint64, rec domain.RateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remember(ctx, denom)
	entries := s.rates[denom]
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Sequence >= seq })
	if i < len(entries) && entries[i].Sequence == seq {
		entries[i].Record = rec
		return nil
	}
	entries = append(entries, domain.RateEntry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = domain.RateEntry{Sequence: seq, Record: rec}
	s.rates[denom] = entries
	return nil
}

func (s *Store) Delete(ctx context.Context, denom string, seq uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.rates[denom]
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Sequence >= seq })
	if i == len(entries) || entries[i].Sequence != seq {
		return nil
	}
	s.remember(ctx, denom)
	s.rates[denom] = append(entries[:i:i], entries[i+1:]...)
	return nil
}

func (s *Store) Count(_ context.Context, denom string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rates[denom]), nil
}

func (s *Store) Scan(_ context.Context, denom string, order application.Order, limit int) ([]domain.RateEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.rates[denom]
	n := len(entries)
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]domain.RateEntry, 0, n)
	for i := 0; i < n; i++ {
		if order == application.Descending {
			out = append(out, entries[len(entries)-1-i])
		} else {
			out = append(out, entries[i])
		}
	}
	return out, nil
}

func (s *Store) LoadConfig(context.Context) (domain.OracleConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return domain.OracleConfig{}, domain.ErrNotInstantiated
	}
	return *s.cfg, nil
}

func (s *Store) SaveConfig(ctx context.Context, cfg domain.OracleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		prev := s.cfg
		log.steps = append(log.steps, func() { s.cfg = prev })
	}
	s.cfg = &cfg
	return nil
}

func (s *Store) LoadContractInfo(context.Context) (domain.ContractInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		return domain.ContractInfo{}, domain.ErrNotInstantiated
	}
	return *s.info, nil
}

func (s *Store) SaveContractInfo(ctx context.Context, info domain.ContractInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		prev := s.info
		log.steps = append(log.steps, func() { s.info = prev })
	}
	s.info = &info
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
