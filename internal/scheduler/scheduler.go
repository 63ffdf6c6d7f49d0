package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/runner"
)

// defaultDelay — пауза после открытия, пока сервер начнёт отдавать входные данные.
const defaultDelay = 10 * time.Second

// DayRunner выполняет день.
type DayRunner interface {
	Run(ctx context.Context, req runner.Request) (*domain.Run, error)
}

// ProgramChecker проверяет наличие программы дня.
type ProgramChecker interface {
	Exists(day int) bool
}

// Config — конфигурация Scheduler.
type Config struct {
	Runner   DayRunner
	Programs ProgramChecker
	Logger   *slog.Logger

	// Delay — пауза после открытия задачи (default: 10s).
	Delay time.Duration
}

// Scheduler запускает программу дня в момент открытия задачи.
type Scheduler struct {
	runner   DayRunner
	programs ProgramChecker
	logger   *slog.Logger
	delay    time.Duration

	// sleep подменяется в тестах
	sleep func(ctx context.Context, d time.Duration) error
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	delay := cfg.Delay
	if delay <= 0 {
		delay = defaultDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		runner:   cfg.Runner,
		programs: cfg.Programs,
		logger:   logger,
		delay:    delay,
		sleep:    sleepContext,
	}
}

// Start запускает cron и блокируется до отмены ctx.
// Выполняющийся run дожидается завершения.
func (s *Scheduler) Start(ctx context.Context) error {
	loc, err := UnlockLocation()
	if err != nil {
		return err
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithParser(cronParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	_, err = c.AddFunc(UnlockSpec, func() {
		if err := s.Tick(ctx, time.Now()); err != nil {
			s.logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	if next, day, err := NextUnlock(time.Now()); err == nil {
		s.logger.Info("scheduler started", "next_unlock", next.Format(time.RFC3339), "day", day)
	}

	c.Start()
	<-ctx.Done()

	// Stop возвращает контекст, который завершается после текущих задач
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")

	return nil
}

// Tick выполняет день, открытый в момент at.
// День без программы пропускается без ошибки.
func (s *Scheduler) Tick(ctx context.Context, at time.Time) error {
	day, err := UnlockDay(at)
	if err != nil {
		return err
	}
	if day == 0 {
		s.logger.Debug("no puzzle unlocked", "at", at)
		return nil
	}

	if !s.programs.Exists(day) {
		s.logger.Info("no program for day, skipping", "day", day)
		return nil
	}

	if err := s.sleep(ctx, s.delay); err != nil {
		return err
	}

	run, err := s.runner.Run(ctx, runner.Request{Day: day})
	if err != nil {
		return fmt.Errorf("day %d: %w", day, err)
	}

	s.logger.Info("scheduled run completed",
		"run_id", run.ID,
		"day", day,
		"status", run.Status,
	)
	return nil
}

// sleepContext ждёт d или отмены ctx.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
