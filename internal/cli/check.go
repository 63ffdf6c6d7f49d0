package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/shaiso/advent/internal/engine"
	"github.com/shaiso/advent/internal/source"
)

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check DAY|FILE",
		Short: "Parse a program and print its graph",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := programPath(app, args[0])
			if err != nil {
				return err
			}

			src, err := source.ReadProgram(path)
			if err != nil {
				return err
			}

			p, err := engine.Parse(src, engine.WithOutput(io.Discard))
			if err != nil {
				return err
			}

			return multierr.Append(engine.Fprint(app.Stdout, p), p.Close())
		},
	}
}

// programPath — путь к программе: номер дня или путь к файлу.
func programPath(app *App, arg string) (string, error) {
	if _, err := strconv.Atoi(arg); err != nil {
		return arg, nil
	}
	day, err := parseDay(arg)
	if err != nil {
		return "", err
	}
	return app.programs().Path(day)
}
