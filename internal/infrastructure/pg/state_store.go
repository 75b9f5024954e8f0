package pg

import (
	"context"
	"encoding/json"
	"errors"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/domain"

	"github.com/jackc/pgx/v5"
)

var _ application.StateStore = (*StateStore)(nil)

const (
	configKey       = "config"
	contractInfoKey = "contract_info"
)

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

func (s *StateStore) load(ctx context.Context, key string, out any) error {
	var raw []byte
	err := s.db.q(ctx).QueryRow(ctx, `SELECT value FROM oracle_state WHERE key=$1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotInstantiated
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *StateStore) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.q(ctx).Exec(ctx, `
        INSERT INTO oracle_state(key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value`, key, raw)
	return err
}
