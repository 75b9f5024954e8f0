// Package provider implements upstream rate sources for the feeder.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/infrastructure/httpx"
)

var _ application.RateSource = (*HTTPSource)(nil)

// HTTPSource reads GET {BaseURL}/rates/{denom} returning
// {"purchase_rate": ..., "redemption_rate": ...}. Rates may be JSON strings or
// numbers; their text is forwarded unchanged.
type HTTPSource struct {
	BaseURL string
	Client  *httpx.Client
	Log     httpx.Logger
}

type sourceResp struct {
	Denom          string          `json:"denom"`
	PurchaseRate   json.RawMessage `json:"purchase_rate"`
	RedemptionRate json.RawMessage `json:"redemption_rate"`
}

func (p *HTTPSource) Fetch(ctx context.Context, denom string) (application.SourceRates, error) {
	if p.BaseURL == "" {
		return application.SourceRates{}, errors.New("http source: missing base url")
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return application.SourceRates{}, fmt.Errorf("http source: invalid base url: %w", err)
	}
	u = u.JoinPath("rates", denom)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return application.SourceRates{}, fmt.Errorf("http source: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := p.Client
	if client == nil {
		client = &httpx.Client{}
	}
	var body sourceResp
	if err := client.DoJSON(ctx, req, &body, p.Log); err != nil {
		return application.SourceRates{}, fmt.Errorf("http source %s: %w", denom, err)
	}
	purchase, err := rateText(body.PurchaseRate)
	if err != nil {
		return application.SourceRates{}, fmt.Errorf("http source %s: purchase_rate: %w", denom, err)
	}
	redemption, err := rateText(body.RedemptionRate)
	if err != nil {
		return application.SourceRates{}, fmt.Errorf("http source %s: redemption_rate: %w", denom, err)
	}
	return application.SourceRates{Denom: denom, PurchaseRate: purchase, RedemptionRate: redemption}, nil
}

// rateText returns the literal text of a JSON string or number.
func rateText(raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	switch {
	case s == "" || s == "null":
		return "", errors.New("missing")
	case strings.HasPrefix(s, `"`):
		var out string
		if err := json.Unmarshal(raw, &out); err != nil {
			return "", err
		}
		return out, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}
