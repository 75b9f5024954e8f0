// Package httpx is a small JSON HTTP client with retries.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Logger receives retry notices. *zap.SugaredLogger satisfies it.
type Logger interface {
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
}

type Client struct {
	HTTP  *http.Client
	Token string
}

// DoJSON sends req and decodes a 200 response into out. Transport errors and
// 5xx responses are retried with exponential backoff; other statuses and
// undecodable bodies are not. log may be nil.
func (c *Client) DoJSON(ctx context.Context, req *http.Request, out any, log Logger) error {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.HTTP == nil {
		c.HTTP = http.DefaultClient
	}
	req = req.WithContext(ctx)

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 1 * time.Second
	exp.MaxElapsedTime = 3 * time.Second

	attempt := 0
	op := func() error {
		attempt++
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode: %w", err))
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		if log != nil {
			log.Warnw("httpx.retry", "url", req.URL.String(), "attempt", attempt, "wait", wait, "error", err)
		}
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(exp, ctx), notify); err != nil {
		return err
	}
	if log != nil && attempt > 1 {
		log.Infow("httpx.recovered", "url", req.URL.String(), "attempts", attempt)
	}
	return nil
}
