package cli

import (
	"github.com/spf13/cobra"

	"github.com/shaiso/advent/internal/steps"
)

// stageInfo — описание стадии для --json.
type stageInfo struct {
	Name   string `json:"name"`
	Input  string `json:"input"`
	Output string `json:"output"`
	Arg    string `json:"arg"`
}

func newStagesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List available pipeline stages",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			headers, rows, infos := stagesTable(steps.DefaultRegistry().Defs())
			app.output().Print(headers, rows, infos)
			return nil
		},
	}
}

// stagesTable строит таблицу каталога стадий в порядке регистрации.
func stagesTable(defs []*steps.Def) ([]string, [][]string, []stageInfo) {
	headers := []string{"STAGE", "INPUT", "OUTPUT", "ARG"}
	rows := make([][]string, 0, len(defs))
	infos := make([]stageInfo, 0, len(defs))

	for _, d := range defs {
		info := stageInfo{
			Name:   d.Name,
			Input:  d.Input.String(),
			Output: d.Output.String(),
			Arg:    d.Arg.String(),
		}
		infos = append(infos, info)
		rows = append(rows, []string{info.Name, info.Input, info.Output, info.Arg})
	}
	return headers, rows, infos
}
