package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/repo"
	"github.com/shaiso/advent/internal/source"
)

func newHistoryCmd(app *App) *cobra.Command {
	var day int
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Config.HasHistory() {
				return ErrHistoryDisabled
			}

			filter := repo.RunFilter{
				Year:   app.Config.Year,
				Day:    day,
				Status: domain.RunStatus(strings.ToUpper(status)),
				Limit:  limit,
			}
			if day != 0 {
				if err := source.ValidateDay(day); err != nil {
					return &ExitError{Code: ExitUsage, Err: err}
				}
			}

			store, closeStore, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			runs, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			headers, rows := historyTable(runs)
			app.output().Print(headers, rows, runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Filter by day")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, RUNNING, SUCCEEDED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of results")

	return cmd
}

// historyTable строит таблицу runs.
func historyTable(runs []domain.Run) ([]string, [][]string) {
	headers := []string{"ID", "DAY", "STATUS", "DURATION", "OUTPUT", "CREATED"}
	rows := make([][]string, len(runs))
	for i, r := range runs {
		result := strings.Join(r.Output, " | ")
		if r.Status == domain.RunStatusFailed {
			result = firstLine(r.Error)
		}
		rows[i] = []string{
			r.ID.String(),
			strconv.Itoa(r.Day),
			string(r.Status),
			r.Duration().Round(time.Millisecond).String(),
			result,
			r.CreatedAt.Format(time.RFC3339),
		}
	}
	return headers, rows
}

// firstLine возвращает первую строку текста.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
