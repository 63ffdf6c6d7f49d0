package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики pipeline. Регистрируются в глобальном реестре Prometheus.
var (
	// ParseErrorsTotal — программы, отклонённые парсером.
	ParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advent_parse_errors_total",
		Help: "Total pipeline programs rejected by the parser",
	})

	// InputBytesTotal — символы, поданные в голову pipeline.
	InputBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advent_input_bytes_total",
		Help: "Total input characters fed into pipelines",
	})

	// StageItemsTotal — элементы, обработанные узлами, по сигнатуре стадии.
	StageItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advent_stage_items_total",
		Help: "Total items processed by pipeline nodes",
	}, []string{"stage"})

	// RunsTotal — завершённые runs по статусу.
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advent_runs_total",
		Help: "Total finished runs by status",
	}, []string{"status"})

	// RunDuration — длительность runs.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "advent_run_duration_seconds",
		Help:    "Duration of pipeline runs including input fetch",
		Buckets: prometheus.DefBuckets,
	})
)

// MetricsHandler возвращает HTTP handler для /metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
