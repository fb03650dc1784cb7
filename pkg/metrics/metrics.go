package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of handled HTTP requests",
		},
		[]string{"method", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

var (
	DBSessionsOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_sessions_opened_total",
			Help: "Number of database sessions opened",
		},
		[]string{"scope"}, // request|console|shared
	)
	DBSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_sessions_active",
			Help: "Number of database sessions currently held",
		},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

var CommandsExecuted = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_commands_executed_total",
		Help: "Console commands executed",
	},
	[]string{"command", "result"}, // ok|error
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики в глобальном реестре (повторный вызов — no-op).
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequests, HTTPDuration,
			DBSessionsOpened, DBSessionsActive,
			CacheOps, CacheSize,
			CommandsExecuted,
		)
	})
}
