package provider

import (
	"context"

	"rateoracle-service/internal/application"
)

var _ application.RateSource = (*Fake)(nil)

// Fake returns the same rate pair for every denom.
type Fake struct {
	purchase   string
	redemption string
}

func NewFake(purchase, redemption string) *Fake {
	return &Fake{purchase: purchase, redemption: redemption}
}

func (f *Fake) Fetch(_ context.Context, denom string) (application.SourceRates, error) {
	return application.SourceRates{Denom: denom, PurchaseRate: f.purchase, RedemptionRate: f.redemption}, nil
}
