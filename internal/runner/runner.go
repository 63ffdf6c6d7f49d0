package runner

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/engine"
	"github.com/shaiso/advent/internal/source"
	"github.com/shaiso/advent/internal/steps"
	"github.com/shaiso/advent/internal/telemetry"
)

// ProgramSource возвращает путь и текст программы дня.
type ProgramSource interface {
	Load(day int) (string, string, error)
}

// InputSource возвращает входные данные дня.
type InputSource interface {
	Fetch(ctx context.Context, year, day int) (string, error)
}

// RunStore сохраняет историю runs.
type RunStore interface {
	Create(ctx context.Context, run *domain.Run) error
	Update(ctx context.Context, run *domain.Run) error
}

// EventPublisher публикует событие о завершённом run.
type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, run *domain.Run) error
}

// Config — конфигурация Runner.
type Config struct {
	// Year — год Advent of Code.
	Year int

	// Programs и Inputs обязательны.
	Programs ProgramSource
	Inputs   InputSource

	// Store и Events необязательны.
	Store  RunStore
	Events EventPublisher

	// Registry — реестр стадий (default: steps.DefaultRegistry).
	Registry *steps.Registry

	// Out — вывод терминальных стадий (default: os.Stdout).
	Out io.Writer

	// Logger
	Logger *slog.Logger
}

// Runner выполняет программы дней.
type Runner struct {
	year     int
	programs ProgramSource
	inputs   InputSource
	store    RunStore
	events   EventPublisher
	registry *steps.Registry
	out      io.Writer
	logger   *slog.Logger

	// сериализует запись в out: schedule и API могут запускать дни параллельно
	outMu sync.Mutex
}

// New создаёт новый Runner.
func New(cfg Config) *Runner {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = steps.DefaultRegistry()
	}

	return &Runner{
		year:     cfg.Year,
		programs: cfg.Programs,
		inputs:   cfg.Inputs,
		store:    cfg.Store,
		events:   cfg.Events,
		registry: registry,
		out:      out,
		logger:   logger,
	}
}

// Request — параметры одного запуска.
type Request struct {
	// Day — номер дня (1..25).
	Day int

	// Input — входные данные вместо скачивания. nil — скачать.
	Input *string

	// Debug — напечатать граф перед выполнением.
	Debug bool
}

// Run выполняет программу дня.
//
// Ошибки загрузки программы возвращаются до создания run.
// Все последующие ошибки завершают run со статусом FAILED;
// run возвращается вместе с ошибкой.
func (r *Runner) Run(ctx context.Context, req Request) (*domain.Run, error) {
	if err := source.ValidateDay(req.Day); err != nil {
		return nil, err
	}

	logger := telemetry.WithDay(r.logger, r.year, req.Day)

	path, src, err := r.programs.Load(req.Day)
	if err != nil {
		return nil, err
	}

	run := domain.NewRun(r.year, req.Day, path)
	logger = telemetry.WithRunID(logger, run.ID.String())

	if r.store != nil {
		if err := r.store.Create(ctx, run); err != nil {
			logger.Warn("failed to record run", "error", err)
		}
	}

	run.MarkRunning()
	lines, err := r.execute(ctx, run, src, req, logger)
	if err != nil {
		run.MarkFailed(err.Error())
	} else {
		run.MarkSucceeded(lines)
	}

	r.finish(ctx, run, logger)
	return run, err
}

// execute разбирает программу и прогоняет через неё входные данные.
// Возвращает строки, напечатанные терминальными стадиями.
//
// outMu держится только пока run пишет в out: на печати графа и на Process.
// Разбор и скачивание входных данных идут без блокировки.
func (r *Runner) execute(ctx context.Context, run *domain.Run, src string, req Request, logger *slog.Logger) ([]string, error) {
	var captured bytes.Buffer
	out := io.MultiWriter(r.out, &captured)

	p, err := engine.Parse(src, engine.WithRegistry(r.registry), engine.WithOutput(out))
	if err != nil {
		// ParseError уже содержит позицию, путь добавляет лог
		logger.Debug("program rejected", "program", run.Program)
		return nil, err
	}
	logger.Debug("program parsed", "program", run.Program, "branches", len(p.Branches))

	if req.Debug {
		r.outMu.Lock()
		err := engine.Fprint(r.out, p)
		r.outMu.Unlock()
		if err != nil {
			return nil, multierr.Append(err, p.Close())
		}
	}

	input, err := r.input(ctx, req)
	if err != nil {
		return nil, multierr.Append(err, p.Close())
	}
	run.InputBytes = len(input)
	logger.Debug("input ready", "bytes", len(input))

	r.outMu.Lock()
	err = multierr.Append(p.Process(input), p.Close())
	r.outMu.Unlock()

	return splitLines(captured.String()), err
}

// input возвращает входные данные запроса.
func (r *Runner) input(ctx context.Context, req Request) (string, error) {
	if req.Input != nil {
		return *req.Input, nil
	}
	if r.inputs == nil {
		return "", source.ErrMissingSession
	}
	return r.inputs.Fetch(ctx, r.year, req.Day)
}

// finish сохраняет результат, публикует событие и обновляет метрики.
func (r *Runner) finish(ctx context.Context, run *domain.Run, logger *slog.Logger) {
	telemetry.RunsTotal.WithLabelValues(string(run.Status)).Inc()
	telemetry.RunDuration.Observe(run.Duration().Seconds())

	if r.store != nil {
		if err := r.store.Update(ctx, run); err != nil {
			logger.Warn("failed to update run", "error", err)
		}
	}

	if r.events != nil {
		if err := r.events.PublishRunCompleted(ctx, run); err != nil {
			// История уже записана, событие необязательно
			logger.Warn("failed to publish run.completed", "error", err)
		}
	}

	if run.Status == domain.RunStatusFailed {
		logger.Error("run failed", "duration", run.Duration(), "error", run.Error)
		return
	}
	logger.Info("run finished", "duration", run.Duration(), "lines", len(run.Output))
}

// splitLines режет вывод на строки без завершающего перевода строки.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
