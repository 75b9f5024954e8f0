package boltstore

import (
	"context"
	"encoding/json"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/domain"

	"go.etcd.io/bbolt"
)

var _ application.StateStore = (*StateStore)(nil)

type StateStore struct{ db *DB }

func NewStateStore(db *DB) *StateStore { return &StateStore{db: db} }

func (s *StateStore) LoadConfig(ctx context.Context) (domain.OracleConfig, error) {
	var cfg domain.OracleConfig
	if err := s.load(ctx, configKey, &cfg); err != nil {
		return domain.OracleConfig{}, err
	}
	return cfg, nil
}

func (s *StateStore) SaveConfig(ctx context.Context, cfg domain.OracleConfig) error {
	return s.save(ctx, configKey, cfg)
}

func (s *StateStore) LoadContractInfo(ctx context.Context) (domain.ContractInfo, error) {
	var info domain.ContractInfo
	if err := s.load(ctx, contractInfoKey, &info); err != nil {
		return domain.ContractInfo{}, err
	}
	return info, nil
}

func (s *StateStore) SaveContractInfo(ctx context.Context, info domain.ContractInfo) error {
	return s.save(ctx, contractInfoKey, info)
}

func (s *StateStore) load(ctx context.Context, key []byte, out any) error {
	return s.db.view(ctx, func(tx *bbolt.Tx) error {
		data := tx.Bucket(StateBucket).Get(key)
		if len(data) == 0 {
			return domain.ErrNotInstantiated
		}
		return json.Unmarshal(data, out)
	})
}

func (s *StateStore) save(ctx context.Context, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.update(ctx, func(tx *bbolt.Tx) error {
		return tx.Bucket(StateBucket).Put(key, data)
	})
}
