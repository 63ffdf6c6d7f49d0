// Advent — запуск pipeline-программ Advent of Code.
//
// Использование:
//
//	advent [--year N] [--program-dir DIR] [--json] <command> [flags]
//
// Команды:
//
//	run DAY         Выполнить программу дня
//	check DAY|FILE  Разобрать программу и напечатать граф
//	history         Последние runs (DB_URL)
//	schedule        Запускать программы в момент открытия задач
//	events          Читать события run.completed (RABBITMQ_URL)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/advent/internal/cli"
	"github.com/shaiso/advent/internal/config"
	"github.com/shaiso/advent/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := telemetry.SetupLogger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitConfig
	}

	app := cli.NewApp(cfg, logger)
	root := cli.NewRootCmd(app, version)

	return cli.Report(os.Stderr, root.ExecuteContext(telemetry.WithLogger(ctx, logger)))
}
