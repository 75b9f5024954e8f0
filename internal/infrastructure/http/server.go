// Package httpserver exposes the oracle router over HTTP.
package httpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/infrastructure/logx"
	"rateoracle-service/internal/infrastructure/metrics"
	"rateoracle-service/internal/msg"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	headerSender         = "X-Sender"
	headerIdempotencyKey = "X-Idempotency-Key"
)

type Server struct {
	router  *application.Router
	blocks  application.BlockSource
	idem    application.IdempotencyStore
	metrics *metrics.Recorder
	limiter *rate.Limiter
	timeout time.Duration
	ping    func(ctx context.Context) error
}

type Option func(*Server)

func WithIdempotency(s application.IdempotencyStore) Option { return func(srv *Server) { srv.idem = s } }
func WithMetrics(m *metrics.Recorder) Option                { return func(srv *Server) { srv.metrics = m } }
func WithRequestTimeout(d time.Duration) Option             { return func(srv *Server) { srv.timeout = d } }

// WithWriteLimit throttles POST /execute to rps requests per second.
// A non-positive rps disables the limit.
func WithWriteLimit(rps float64, burst int) Option {
	return func(srv *Server) {
		if rps > 0 {
			srv.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

func NewServer(router *application.Router, blocks application.BlockSource, opts ...Option) *Server {
	s := &Server{router: router, blocks: blocks}
	for _, opt := range opts {
		opt(s)
	}
	if s.idem == nil {
		s.idem = application.NoopIdempotency{}
	}
	return s
}

// SetReadyCheck installs the probe behind /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

func (s *Server) Execute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sender, err := domain.ValidateIdentity(r.Header.Get(headerSender))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing or invalid "+headerSender)
		return
	}
	var m msg.ExecuteMsg
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var idemKey string
	if k := r.Header.Get(headerIdempotencyKey); k != "" {
		idemKey = application.IdempotencyKey(sender.String(), k)
		ok, err := s.idem.TryReserve(ctx, idemKey)
		if err != nil {
			logx.L().Error("idempotency.reserve_failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "idempotency store unavailable")
			return
		}
		if !ok {
			writeErr(w, fmt.Errorf("%w: duplicate %s", application.ErrConflict, headerIdempotencyKey))
			return
		}
	}

	resp, err := s.router.Execute(ctx, s.blocks.Next(), sender, m)
	if err != nil {
		if idemKey != "" {
			if relErr := s.idem.Release(context.WithoutCancel(ctx), idemKey); relErr != nil {
				logx.L().Warn("idempotency.release_failed", zap.Error(relErr))
			}
		}
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var m msg.QueryMsg
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.query(w, r, m)
}

func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, msg.QueryMsg{Config: &msg.ConfigQuery{}})
}

func (s *Server) GetRate(w http.ResponseWriter, r *http.Request) {
	var denom string
	if err := runtime.BindQueryParameter("form", true, true, "denom", r.URL.Query(), &denom); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	params, ok := bindParams(w, r)
	if !ok {
		return
	}
	q := &msg.RateQuery{Denom: denom, Params: params}
	switch chi.URLParam(r, "kind") {
	case "purchase":
		s.query(w, r, msg.QueryMsg{PurchaseRate: q})
	case "redemption":
		s.query(w, r, msg.QueryMsg{RedemptionRate: q})
	default:
		writeError(w, http.StatusNotFound, "unknown rate kind")
	}
}

func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	var denom string
	if err := runtime.BindQueryParameter("form", true, true, "denom", r.URL.Query(), &denom); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var limit *uint64
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	params, ok := bindParams(w, r)
	if !ok {
		return
	}
	q := &msg.HistoricalQuery{Denom: denom, Params: params, Limit: limit}
	switch chi.URLParam(r, "kind") {
	case "purchase":
		s.query(w, r, msg.QueryMsg{HistoricalPurchaseRates: q})
	case "redemption":
		s.query(w, r, msg.QueryMsg{HistoricalRedemptionRates: q})
	default:
		writeError(w, http.StatusNotFound, "unknown rate kind")
	}
}

func (s *Server) query(w http.ResponseWriter, r *http.Request, m msg.QueryMsg) {
	resp, err := s.router.Query(r.Context(), m)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// bindParams reads the optional base64 "params" query value.
func bindParams(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "params", r.URL.Query(), &raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if raw == nil {
		return nil, true
	}
	b, err := base64.StdEncoding.DecodeString(*raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "params must be base64")
		return nil, false
	}
	return b, true
}
