package application

import (
	"fmt"

	"rateoracle-service/internal/domain"
)

// Authorize succeeds only for the configured admin.
func Authorize(caller domain.Identity, cfg domain.OracleConfig) error {
	if caller != cfg.AdminAddress {
		return fmt.Errorf("%w: sender %q is not the admin", domain.ErrUnauthorized, caller)
	}
	return nil
}
