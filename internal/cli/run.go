package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/advent/internal/runner"
)

func newRunCmd(app *App) *cobra.Command {
	var debug bool
	var inputPath string

	cmd := &cobra.Command{
		Use:   "run DAY",
		Short: "Run the program of a day over its input",
		Long: `Run parses <program-dir>/day<DAY>.pipe, fetches the input of the day
(or reads --input) and streams it through the pipeline.
Pipeline output goes to stdout, logs go to stderr.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[0])
			if err != nil {
				return err
			}

			req := runner.Request{Day: day, Debug: debug}
			if inputPath != "" {
				input, err := readInput(app.Stdin, inputPath)
				if err != nil {
					return err
				}
				req.Input = &input
			}

			ctx := cmd.Context()
			b := app.openBackends(ctx)
			defer app.closeBackends(b)

			_, err = app.newRunner(b).Run(ctx, req)
			return err
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Print the compiled pipeline before running")
	cmd.Flags().StringVar(&inputPath, "input", "", "Read input from file instead of fetching it (- for stdin)")

	return cmd
}

// readInput читает входные данные из файла или stdin.
func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
