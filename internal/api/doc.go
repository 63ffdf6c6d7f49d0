// Package api содержит HTTP API для runs.
//
// Структура:
//   - handler.go     — Handler с DI (история runs, runner, logger)
//   - routes.go      — регистрация маршрутов
//   - middleware.go  — middleware (logging, recovery)
//   - response.go    — унифицированные JSON-ответы и обработка ошибок
//   - dto.go         — Data Transfer Objects (request/response)
//   - run_handler.go — обработчики для /runs и /days/{day}/runs
//   - check_handler.go — разбор программы без выполнения
//
// Сервер поднимается командой advent schedule вместе с /metrics.
package api
