package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

func outcome(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

var defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

// collectors are created eagerly so recording before Init is harmless,
// they are only exposed once Init registers them
var (
	once          sync.Once
	metricsRouter *chi.Mux

	chainClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chain_client_latency_seconds",
			Help:    "Histogram of chain client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of incoming api request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "route", "status"},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	ledgerOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Ledger operation duration in seconds, including persistence.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	ledgerEventsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_events_total",
			Help: "Number of ledger events emitted by type",
		},
		[]string{"event_type"},
	)

	totalStakedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_total_staked",
			Help: "Pool wide staked LP amount",
		},
	)

	stakersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_stakers_count",
			Help: "Number of accounts with a positive stake",
		},
	)

	pendingRewardsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_pending_rewards",
			Help: "Sum of accrued but unclaimed rewards over all accounts",
		},
	)

	chainHeightGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chain_height",
			Help: "Last value of block height retrieved",
		},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics registers the Prometheus metrics.
func registerMetrics() {
	prometheus.MustRegister(
		chainClientLatency,
		queueSendErrorCounter,
		httpRequestDurationHistogram,
		pollerDurationHistogram,
		ledgerOperationDuration,
		ledgerEventsCounter,
		totalStakedGauge,
		stakersGauge,
		pendingRewardsGauge,
		chainHeightGauge,
		dbLatency,
	)
}

func RecordChainClientLatency(d time.Duration, method string, failure bool) {
	chainClientLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordLedgerOperation(d time.Duration, operation string, failure bool) {
	ledgerOperationDuration.WithLabelValues(operation, outcome(failure).String()).Observe(d.Seconds())
}

func IncLedgerEvent(eventType string) {
	ledgerEventsCounter.WithLabelValues(eventType).Inc()
}

func RecordChainHeight(height uint64) {
	chainHeightGauge.Set(float64(height))
}

// RecordPoolStats sets the pool gauges. Amounts are converted to float64 and
// lose precision above 2^53, which is acceptable for dashboards.
func RecordPoolStats(totalStaked, pendingRewards float64, stakers int) {
	totalStakedGauge.Set(totalStaked)
	pendingRewardsGauge.Set(pendingRewards)
	stakersGauge.Set(float64(stakers))
}

// StartHTTPRequestDurationTimer starts a timer to measure an incoming api request.
// The route is only known once the router matched it, so it is passed on stop.
func StartHTTPRequestDurationTimer(method string) func(route string, statusCode int) {
	startTime := time.Now()
	return func(route string, statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(
			method,
			route,
			strconv.Itoa(statusCode),
		).Observe(duration)
	}
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}
