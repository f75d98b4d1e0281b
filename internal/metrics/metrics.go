// Package metrics exposes Prometheus collectors for the ledger: entry
// mutation counters, ledger gauges and HTTP request instrumentation.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bukmacher/internal/core"
	"bukmacher/internal/log"
	"bukmacher/internal/services"
)

const namespace = "bukmacher"

// EntrySource is the part of the entry store the metrics read.
type EntrySource interface {
	AllSorted(ctx context.Context) ([]core.BetEntry, error)
	Subscribe(fn services.Observer) (unsubscribe func())
}

type Metrics struct {
	registry *prometheus.Registry
	logger   *log.Logger

	entryEvents     *prometheus.CounterVec
	entries         prometheus.Gauge
	balance         prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	publishFailures prometheus.Counter
}

// New registers every collector on a private registry, plus the Go and
// process collectors.
func New(logger *log.Logger) *Metrics {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logger:   logger.WithComponent(log.ComponentMetrics),
		entryEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entry_events_total",
			Help:      "Entry mutations by kind.",
		}, []string{"kind"}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Number of stored entries.",
		}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance_base_currency",
			Help:      "Current ledger balance in the base currency.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Entry events the broker rejected.",
		}),
	}
	m.registry.MustRegister(
		m.entryEvents, m.entries, m.balance,
		m.httpRequests, m.httpDuration, m.publishFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStore counts every store event and refreshes the ledger gauges
// after each one. The gauges are seeded immediately.
func (m *Metrics) ObserveStore(ctx context.Context, src EntrySource) (unsubscribe func()) {
	m.refresh(ctx, src)
	return src.Subscribe(func(ev services.Event) {
		m.entryEvents.WithLabelValues(string(ev.Kind)).Inc()
		m.refresh(ctx, src)
	})
}

func (m *Metrics) refresh(ctx context.Context, src EntrySource) {
	entries, err := src.AllSorted(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "Failed to refresh ledger gauges", log.FieldError, err.Error())
		return
	}
	m.entries.Set(float64(len(entries)))
	balance, _ := core.TotalBalance(entries).Float64()
	m.balance.Set(balance)
}

// InstrumentPublisher wraps p so every failed publish is counted.
func (m *Metrics) InstrumentPublisher(p services.Publisher) services.Publisher {
	return &countingPublisher{next: p, failures: m.publishFailures}
}

type countingPublisher struct {
	next     services.Publisher
	failures prometheus.Counter
}

func (p *countingPublisher) PublishEntryEvent(ctx context.Context, kind string, ids []uuid.UUID, at time.Time) error {
	err := p.next.PublishEntryEvent(ctx, kind, ids, at)
	if err != nil {
		p.failures.Inc()
	}
	return err
}

// Middleware records count and latency per route. route maps a request to
// a low-cardinality label; nil uses the URL path.
func (m *Metrics) Middleware(route func(*http.Request) string) func(http.Handler) http.Handler {
	if route == nil {
		route = func(r *http.Request) string { return r.URL.Path }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			label := route(r)
			m.httpRequests.WithLabelValues(r.Method, label, strconv.Itoa(rec.status)).Inc()
			m.httpDuration.WithLabelValues(r.Method, label).Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
