package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxHistory bounds the number of records kept per denom.
const MaxHistory = 100

// MaxRateFractionDigits matches the fixed-point precision rates are published with.
const MaxRateFractionDigits = 18

var rateRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

type RateRecord struct {
	PurchaseRate   decimal.Decimal `json:"purchase_rate"`
	RedemptionRate decimal.Decimal `json:"redemption_rate"`
	// UpdateTime is unix seconds.
	UpdateTime uint64 `json:"update_time"`
}

// RateEntry is a record together with the sequence it is stored under.
type RateEntry struct {
	Sequence uint64
	Record   RateRecord
}

// ParseRate parses a non-negative base-10 decimal string. Exponents, signs and
// more than MaxRateFractionDigits fractional digits are rejected.
func ParseRate(field, s string) (decimal.Decimal, error) {
	if !rateRe.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q", ErrMalformedRate, field, s)
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > MaxRateFractionDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q has more than %d fractional digits",
			ErrMalformedRate, field, s, MaxRateFractionDigits)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q: %v", ErrMalformedRate, field, s, err)
	}
	return d, nil
}
