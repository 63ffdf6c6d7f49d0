package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/repo"
	"github.com/shaiso/advent/internal/runner"
)

// RunReader читает историю runs.
type RunReader interface {
	List(ctx context.Context, filter repo.RunFilter) ([]domain.Run, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
}

// DayRunner выполняет день.
type DayRunner interface {
	Run(ctx context.Context, req runner.Request) (*domain.Run, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	runs   RunReader
	runner DayRunner
	year   int
	logger *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	// Runs — история runs. nil — эндпоинты истории отвечают 503.
	Runs RunReader

	// Runner — запуск дней. nil — запуск отвечает 503.
	Runner DayRunner

	// Year — год, в котором фильтруется история.
	Year int

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		runs:   cfg.Runs,
		runner: cfg.Runner,
		year:   cfg.Year,
		logger: logger,
	}
}
