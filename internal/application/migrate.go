package application

import (
	"context"
	"fmt"

	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/msg"

	gvers "github.com/hashicorp/go-version"
	"go.uber.org/zap"
)

// Migrate records target as the stored version. It is refused unless the stored
// contract is this oracle and target is strictly newer than the stored version.
// No data migration step exists yet.
func (s *OracleService) Migrate(ctx context.Context, target string) (msg.MigrateResponse, error) {
	if target == "" {
		target = s.version
	}
	var resp msg.MigrateResponse
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		info, err := s.state.LoadContractInfo(ctx)
		if err != nil {
			return err
		}
		if info.Contract != domain.ContractName {
			return fmt.Errorf("%w: stored contract %q is not %q",
				domain.ErrInvalidVersionTransition, info.Contract, domain.ContractName)
		}
		stored, err := gvers.NewVersion(info.Version)
		if err != nil {
			return fmt.Errorf("%w: stored version %q: %v", domain.ErrInvalidVersionTransition, info.Version, err)
		}
		next, err := gvers.NewVersion(target)
		if err != nil {
			return fmt.Errorf("%w: target version %q: %v", domain.ErrInvalidVersionTransition, target, err)
		}
		if !next.GreaterThan(stored) {
			return fmt.Errorf("%w: target %s is not newer than stored %s",
				domain.ErrInvalidVersionTransition, next, stored)
		}
		resp = msg.MigrateResponse{Contract: info.Contract, FromVersion: info.Version, ToVersion: target}
		return s.state.SaveContractInfo(ctx, domain.ContractInfo{Contract: domain.ContractName, Version: target})
	})
	if err != nil {
		return msg.MigrateResponse{}, err
	}
	s.log.Info("migrate.done", zap.String("from", resp.FromVersion), zap.String("to", resp.ToVersion))
	return resp, nil
}

func (s *OracleService) GetContractInfo(ctx context.Context) (domain.ContractInfo, error) {
	return s.state.LoadContractInfo(ctx)
}
