package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/shaiso/advent/internal/config"
	"github.com/shaiso/advent/internal/engine"
	"github.com/shaiso/advent/internal/source"
)

// Коды завершения процесса (sysexits.h).
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 64
	ExitConfig  = 78
)

var (
	// ErrHistoryDisabled — DB_URL не задан.
	ErrHistoryDisabled = errors.New("run history is disabled: DB_URL is not set")

	// ErrEventsDisabled — RABBITMQ_URL не задан.
	ErrEventsDisabled = errors.New("events are disabled: RABBITMQ_URL is not set")
)

// ExitError — ошибка с явным кодом завершения.
type ExitError struct {
	Code int
	Err  error
}

// Error реализует интерфейс error.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap возвращает исходную ошибку.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// usageError помечает ошибку как ошибку использования.
func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

// ExitCode возвращает код завершения для ошибки.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, source.ErrInvalidDay):
		return ExitUsage
	case errors.Is(err, source.ErrMissingSession),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, ErrHistoryDisabled),
		errors.Is(err, ErrEventsDisabled):
		return ExitConfig
	default:
		return ExitFailure
	}
}

// Report пишет ошибку в w и возвращает код завершения.
// Ошибка разбора программы выводится в виде "<message>\n  at <line>:<column>\n".
func Report(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}

	var pErr *engine.ParseError
	if errors.As(err, &pErr) {
		fmt.Fprintln(w, pErr.Error())
	} else {
		fmt.Fprintln(w, "Error:", err)
	}
	return ExitCode(err)
}
