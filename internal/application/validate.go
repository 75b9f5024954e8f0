package application

import (
	"fmt"

	"rateoracle-service/internal/domain"
)

// ValidateExtensionParams rejects any non-empty extension params. The slot is
// reserved and not interpreted yet.
func ValidateExtensionParams(params []byte) error {
	if len(params) != 0 {
		return fmt.Errorf("%w: params must be empty", domain.ErrInvalidRequest)
	}
	return nil
}
