package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/shaiso/advent/internal/config"
	"github.com/shaiso/advent/internal/mq"
	"github.com/shaiso/advent/internal/repo"
	"github.com/shaiso/advent/internal/runner"
	"github.com/shaiso/advent/internal/source"
)

// App — общее состояние команд: конфигурация, логгер и потоки ввода-вывода.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	jsonOutput bool
}

// NewApp создаёт App со стандартными потоками.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// NewRootCmd создаёт корневую команду advent.
func NewRootCmd(app *App, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "advent",
		Short:         "Advent — pipeline programs for Advent of Code",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	// Флаги переопределяют значения из окружения
	root.PersistentFlags().IntVar(&app.Config.Year, "year", app.Config.Year, "Advent of Code year (ADVENT_YEAR)")
	root.PersistentFlags().StringVar(&app.Config.ProgramDir, "program-dir", app.Config.ProgramDir, "Directory with day<N>.pipe programs (ADVENT_PROGRAM_DIR)")
	root.PersistentFlags().BoolVar(&app.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(
		newRunCmd(app),
		newCheckCmd(app),
		newHistoryCmd(app),
		newScheduleCmd(app),
		newEventsCmd(app),
		newStagesCmd(app),
	)

	return root
}

// output создаёт Output после разбора флагов.
func (a *App) output() *Output {
	return NewOutput(a.jsonOutput, a.Stdout, a.Stderr)
}

// programs создаёт загрузчик программ.
func (a *App) programs() *source.ProgramLoader {
	return source.NewProgramLoader(a.Config.ProgramDir, a.Config.ProgramPattern)
}

// fetcher создаёт загрузчик входных данных.
func (a *App) fetcher() *source.Fetcher {
	return source.NewFetcher(a.Config.BaseURL, a.Config.Session, a.Config.CacheDir, a.Logger).
		WithInputPattern(a.Config.InputURL)
}

// openStore подключает историю runs. Возвращает nil, если DB_URL не задан.
func (a *App) openStore(ctx context.Context) (*repo.RunRepo, func(), error) {
	if !a.Config.HasHistory() {
		return nil, func() {}, nil
	}

	pool, err := repo.NewPool(ctx, a.Config.DBURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}
	if err := repo.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo.NewRunRepo(pool), pool.Close, nil
}

// openConnection подключается к RabbitMQ. Топологию объявляет само соединение.
func (a *App) openConnection(ctx context.Context) (*mq.Connection, error) {
	if !a.Config.HasEvents() {
		return nil, nil
	}

	conn, err := mq.Dial(ctx, a.Config.RabbitURL, a.Logger)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("rabbitmq topology ready", "topology", mq.TopologyInfo())
	return conn, nil
}

// backends — необязательные внешние зависимости: история и события.
type backends struct {
	store   *repo.RunRepo
	events  *mq.Publisher
	closers []func() error
}

// openBackends подключает историю и события. Ошибки подключения
// логируются: run выполняется и без них.
func (a *App) openBackends(ctx context.Context) *backends {
	b := &backends{}

	store, closeStore, err := a.openStore(ctx)
	switch {
	case err != nil:
		a.Logger.Warn("run history unavailable", "error", err)
	case store != nil:
		b.store = store
		b.closers = append(b.closers, func() error { closeStore(); return nil })
	}

	conn, err := a.openConnection(ctx)
	switch {
	case err != nil:
		a.Logger.Warn("events unavailable", "error", err)
	case conn != nil:
		b.events = mq.NewPublisher(conn, a.Logger)
		b.closers = append(b.closers, conn.Close)
	}

	return b
}

// Close закрывает подключения.
func (b *backends) Close() error {
	var err error
	for _, c := range b.closers {
		err = multierr.Append(err, c())
	}
	return err
}

// newRunner собирает Runner поверх подключённых зависимостей.
func (a *App) newRunner(b *backends) *runner.Runner {
	cfg := runner.Config{
		Year:     a.Config.Year,
		Programs: a.programs(),
		Inputs:   a.fetcher(),
		Out:      a.Stdout,
		Logger:   a.Logger,
	}
	// nil-указатель в интерфейсе не равен nil
	if b.store != nil {
		cfg.Store = b.store
	}
	if b.events != nil {
		cfg.Events = b.events
	}
	return runner.New(cfg)
}

// closeBackends закрывает зависимости и логирует ошибку.
func (a *App) closeBackends(b *backends) {
	if err := b.Close(); err != nil {
		a.Logger.Warn("cleanup failed", "error", err)
	}
}

// parseDay разбирает номер дня из аргумента.
func parseDay(arg string) (int, error) {
	day, err := strconv.Atoi(arg)
	if err != nil {
		return 0, usageError("invalid day %q: must be a number", arg)
	}
	if err := source.ValidateDay(day); err != nil {
		return 0, &ExitError{Code: ExitUsage, Err: err}
	}
	return day, nil
}

// exactArgs — cobra.ExactArgs с кодом ошибки использования.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &ExitError{Code: ExitUsage, Err: err}
		}
		return nil
	}
}
