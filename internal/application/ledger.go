package application

import (
	"context"
	"math"

	"rateoracle-service/internal/domain"
)

// RateLedger keeps a bounded, sequence-ordered history of rate records per denom.
type RateLedger struct {
	table      RateTable
	maxHistory int
}

func NewRateLedger(table RateTable) *RateLedger {
	return &RateLedger{table: table, maxHistory: domain.MaxHistory}
}

// Append inserts rec at (denom, sequence), replacing any record already there.
func (l *RateLedger) Append(ctx context.Context, denom string, sequence uint64, rec domain.RateRecord) error {
	return l.table.Save(ctx, denom, sequence, rec)
}

// Prune removes the lowest-sequence record of denom when the partition holds
// more than the history bound. A single Append can exceed the bound by at most
// one, so at most one record is evicted. The evicted sequence is returned.
func (l *RateLedger) Prune(ctx context.Context, denom string) (*uint64, error) {
	n, err := l.table.Count(ctx, denom)
	if err != nil {
		return nil, err
	}
	if n <= l.maxHistory {
		return nil, nil
	}
	oldest, err := l.table.Scan(ctx, denom, Ascending, 1)
	if err != nil {
		return nil, err
	}
	if len(oldest) == 0 {
		return nil, nil
	}
	seq := oldest[0].Sequence
	if err := l.table.Delete(ctx, denom, seq); err != nil {
		return nil, err
	}
	return &seq, nil
}

// Latest returns the record with the highest sequence of denom.
func (l *RateLedger) Latest(ctx context.Context, denom string) (domain.RateRecord, bool, error) {
	entries, err := l.table.Scan(ctx, denom, Descending, 1)
	if err != nil {
		return domain.RateRecord{}, false, err
	}
	if len(entries) == 0 {
		return domain.RateRecord{}, false, nil
	}
	return entries[0].Record, true, nil
}

// Range returns the records of denom newest first. A nil limit returns all of them.
func (l *RateLedger) Range(ctx context.Context, denom string, limit *uint64) ([]domain.RateRecord, error) {
	n := -1
	if limit != nil && *limit <= math.MaxInt32 {
		n = int(*limit)
	}
	entries, err := l.table.Scan(ctx, denom, Descending, n)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RateRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Record)
	}
	return out, nil
}
