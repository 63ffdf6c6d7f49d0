// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog (в stderr)
//   - metrics.go — Prometheus метрики парсера, движка и runs
//
// Метрики экспортируются на /metrics командой schedule,
// когда задан METRICS_ADDR.
package telemetry
