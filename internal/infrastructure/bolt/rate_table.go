package boltstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/infrastructure/logx"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var _ application.RateTable = (*RateTable)(nil)

// RateTable keeps one nested bucket per denom under RatesBucket. Keys are
// big-endian sequences so cursor order is sequence order.
type RateTable struct{ db *DB }

func NewRateTable(db *DB) *RateTable { return &RateTable{db: db} }

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

func (r *RateTable) Save(ctx context.Context, denom string, seq uint64, rec domain.RateRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	log := logx.L().With(
		zap.String("repo", "bolt_rates"),
		zap.String("operation", "Save"),
		zap.String("denom", denom),
		zap.Uint64("sequence", seq),
	)
	err = r.db.update(ctx, func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(RatesBucket).CreateBucketIfNotExists([]byte(denom))
		if err != nil {
			return fmt.Errorf("could not bucket for denom %q: %w", denom, err)
		}
		return b.Put(seqKey(seq), data)
	})
	if err != nil {
		log.Error("bolt.update_failed", zap.Error(err))
		return err
	}
	log.Debug("bolt.update_success")
	return nil
}

func (r *RateTable) Delete(ctx context.Context, denom string, seq uint64) error {
	return r.db.update(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(RatesBucket).Bucket([]byte(denom))
		if b == nil {
			return nil
		}
		return b.Delete(seqKey(seq))
	})
}

func (r *RateTable) Count(ctx context.Context, denom string) (int, error) {
	var n int
	err := r.db.view(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(RatesBucket).Bucket([]byte(denom))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (r *RateTable) Scan(ctx context.Context, denom string, order application.Order, limit int) ([]domain.RateEntry, error) {
	var out []domain.RateEntry
	err := r.db.view(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(RatesBucket).Bucket([]byte(denom))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		first, next := c.First, c.Next
		if order == application.Descending {
			first, next = c.Last, c.Prev
		}
		for k, v := first(); k != nil; k, v = next() {
			if limit >= 0 && len(out) >= limit {
				break
			}
			var rec domain.RateRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode rate %q/%x: %w", denom, k, err)
			}
			out = append(out, domain.RateEntry{Sequence: binary.BigEndian.Uint64(k), Record: rec})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
