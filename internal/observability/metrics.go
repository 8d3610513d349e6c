package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	httpDurationHistogram   *prometheus.HistogramVec
	rowsMigratedCounter     prometheus.Counter
	walletsCreatedCounter   prometheus.Counter
	unsupportedShapeCounter prometheus.Counter
	workerRunCounter        *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		rowsMigratedCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "migration_rows_migrated_total",
			Help: "Legacy rows successfully migrated to the ledger",
		})

		walletsCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "migration_wallets_created_total",
			Help: "Wallets created during identity resolution",
		})

		unsupportedShapeCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "migration_unsupported_shapes_total",
			Help: "Legacy rows rejected because no modeled shape matched",
		})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			rowsMigratedCounter,
			walletsCreatedCounter,
			unsupportedShapeCounter,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementRowsMigrated() {
	if rowsMigratedCounter == nil {
		return
	}
	rowsMigratedCounter.Inc()
}

func IncrementWalletsCreated() {
	if walletsCreatedCounter == nil {
		return
	}
	walletsCreatedCounter.Inc()
}

func IncrementUnsupportedShape() {
	if unsupportedShapeCounter == nil {
		return
	}
	unsupportedShapeCounter.Inc()
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
