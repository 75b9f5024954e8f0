// Package metrics exposes oracle counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"rateoracle-service/internal/application"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rateoracle"

var _ application.Metrics = (*Recorder)(nil)

// Recorder implements application.Metrics on a private registry.
type Recorder struct {
	reg      *prometheus.Registry
	posted   *prometheus.CounterVec
	evicted  *prometheus.CounterVec
	rejected *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		posted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rates_posted_total",
			Help:      "Count of accepted rate updates.",
		}, []string{"denom"}),
		evicted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rates_evicted_total",
			Help:      "Count of history entries dropped to keep the per-denom bound.",
		}, []string{"denom"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_rejected_total",
			Help:      "Count of rejected requests by reason.",
		}, []string{"reason"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request latencies.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
	r.reg.MustRegister(
		r.posted, r.evicted, r.rejected, r.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) RatesPosted(denom string)      { r.posted.WithLabelValues(denom).Inc() }
func (r *Recorder) RateEvicted(denom string)      { r.evicted.WithLabelValues(denom).Inc() }
func (r *Recorder) RequestRejected(reason string) { r.rejected.WithLabelValues(reason).Inc() }

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(method, route string, code int, d time.Duration) {
	r.latency.WithLabelValues(method, route, strconv.Itoa(code)).Observe(d.Seconds())
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
