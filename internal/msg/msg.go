package msg

import (
	"fmt"

	"rateoracle-service/internal/domain"

	"github.com/shopspring/decimal"
)

type InstantiateMsg struct {
	AdminAddress string `json:"admin_address"`
}

type MigrateMsg struct {
	// Version is the target version; empty means the running binary's version.
	Version string `json:"version,omitempty"`
}

type ExecuteMsg struct {
	PostRates *PostRates `json:"post_rates,omitempty"`
}

type PostRates struct {
	Denom          string `json:"denom"`
	PurchaseRate   string `json:"purchase_rate"`
	RedemptionRate string `json:"redemption_rate"`
}

// Kind returns the name of the set variant.
func (m ExecuteMsg) Kind() (string, error) {
	if m.PostRates == nil {
		return "", fmt.Errorf("%w: empty execute message", domain.ErrUnknownMessage)
	}
	return "post_rates", nil
}

type QueryMsg struct {
	Config                    *ConfigQuery     `json:"config,omitempty"`
	PurchaseRate              *RateQuery       `json:"purchase_rate,omitempty"`
	RedemptionRate            *RateQuery       `json:"redemption_rate,omitempty"`
	HistoricalPurchaseRates   *HistoricalQuery `json:"historical_purchase_rates,omitempty"`
	HistoricalRedemptionRates *HistoricalQuery `json:"historical_redemption_rates,omitempty"`
}

type ConfigQuery struct{}

type RateQuery struct {
	Denom  string `json:"denom"`
	Params []byte `json:"params,omitempty"`
}

type HistoricalQuery struct {
	Denom  string  `json:"denom"`
	Params []byte  `json:"params,omitempty"`
	Limit  *uint64 `json:"limit,omitempty"`
}

// Kind returns the name of the set variant. Exactly one must be set.
func (m QueryMsg) Kind() (string, error) {
	var kinds []string
	if m.Config != nil {
		kinds = append(kinds, "config")
	}
	if m.PurchaseRate != nil {
		kinds = append(kinds, "purchase_rate")
	}
	if m.RedemptionRate != nil {
		kinds = append(kinds, "redemption_rate")
	}
	if m.HistoricalPurchaseRates != nil {
		kinds = append(kinds, "historical_purchase_rates")
	}
	if m.HistoricalRedemptionRates != nil {
		kinds = append(kinds, "historical_redemption_rates")
	}
	switch len(kinds) {
	case 1:
		return kinds[0], nil
	case 0:
		return "", fmt.Errorf("%w: empty query message", domain.ErrUnknownMessage)
	default:
		return "", fmt.Errorf("%w: multiple variants %v", domain.ErrUnknownMessage, kinds)
	}
}

// Attributes is the response of instantiate, mirroring the event attributes
// emitted by post_rates.
type Attributes struct {
	Action       string `json:"action"`
	AdminAddress string `json:"admin_address"`
}

type PostRatesAck struct {
	Action         string `json:"action"`
	Denom          string `json:"denom"`
	PurchaseRate   string `json:"purchase_rate"`
	RedemptionRate string `json:"redemption_rate"`
	UpdateTime     uint64 `json:"update_time"`
}

type ConfigResponse struct {
	AdminAddress string `json:"admin_address"`
}

type PurchaseRateResponse struct {
	PurchaseRate decimal.Decimal `json:"purchase_rate"`
	UpdateTime   uint64          `json:"update_time"`
}

type RedemptionRateResponse struct {
	RedemptionRate decimal.Decimal `json:"redemption_rate"`
	UpdateTime     uint64          `json:"update_time"`
}

type PurchaseRate struct {
	Denom        string          `json:"denom"`
	PurchaseRate decimal.Decimal `json:"purchase_rate"`
	UpdateTime   uint64          `json:"update_time"`
}

type RedemptionRate struct {
	Denom          string          `json:"denom"`
	RedemptionRate decimal.Decimal `json:"redemption_rate"`
	UpdateTime     uint64          `json:"update_time"`
}

type HistoricalPurchaseRatesResponse struct {
	PurchaseRates []PurchaseRate `json:"purchase_rates"`
}

type HistoricalRedemptionRatesResponse struct {
	RedemptionRates []RedemptionRate `json:"redemption_rates"`
}

type MigrateResponse struct {
	Contract    string `json:"contract"`
	FromVersion string `json:"from_version"`
	ToVersion   string `json:"to_version"`
}
