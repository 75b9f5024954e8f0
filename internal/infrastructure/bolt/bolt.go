package boltstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	infraconfig "rateoracle-service/internal/infrastructure/config"

	"go.etcd.io/bbolt"
)

var (
	StateBucket = []byte("State")
	RatesBucket = []byte("Rates")

	configKey       = []byte("config")
	contractInfoKey = []byte("contract_info")
)

var errReadOnlyTx = errors.New("write attempted inside read-only transaction")

type DB struct{ Bolt *bbolt.DB }

// Open opens (creating if needed) the database file and its top-level buckets.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, fmt.Errorf("failed to create directory for oracle database: %w", err)
	}
	db, err := bbolt.Open(path, 0660, &bbolt.Options{Timeout: infraconfig.DefaultBoltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bn := range [][]byte{StateBucket, RatesBucket} {
			if _, err := tx.CreateBucketIfNotExists(bn); err != nil {
				return fmt.Errorf("could not bucket: %s, err: %w", string(bn), err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{Bolt: db}, nil
}

func (d *DB) Close() error { return d.Bolt.Close() }

func (d *DB) Ping(context.Context) error {
	return d.Bolt.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(RatesBucket) == nil {
			return fmt.Errorf("bucket %s missing", RatesBucket)
		}
		return nil
	})
}

type txKey struct{}

func txFromCtx(ctx context.Context) *bbolt.Tx {
	if tx, ok := ctx.Value(txKey{}).(*bbolt.Tx); ok {
		return tx
	}
	return nil
}

func (d *DB) view(ctx context.Context, fn func(tx *bbolt.Tx) error) error {
	if tx := txFromCtx(ctx); tx != nil {
		return fn(tx)
	}
	return d.Bolt.View(fn)
}

func (d *DB) update(ctx context.Context, fn func(tx *bbolt.Tx) error) error {
	if tx := txFromCtx(ctx); tx != nil {
		if !tx.Writable() {
			return errReadOnlyTx
		}
		return fn(tx)
	}
	return d.Bolt.Update(fn)
}

// UnitOfWork runs fn inside a single read-write transaction. Everything fn
// writes through the stores of the same DB is committed or discarded together.
type UnitOfWork struct{ DB *DB }

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromCtx(ctx) != nil {
		return fn(ctx)
	}
	return u.DB.Bolt.Update(func(tx *bbolt.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
