package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/mq"
)

func newEventsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Follow run.completed events",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if !app.Config.HasEvents() {
				return ErrEventsDisabled
			}

			ctx := cmd.Context()
			conn, err := app.openConnection(ctx)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, conn.Close())
			}()

			out := app.output()
			consumer := mq.NewConsumer(conn, app.Logger, mq.ConsumerConfig{
				Queue: string(mq.QueueRunsCompleted),
				Handler: mq.RunCompletedHandler(func(_ context.Context, p mq.RunCompletedPayload) error {
					if out.IsJSON() {
						out.JSONLine(p)
						return nil
					}
					out.Line(formatEvent(p))
					return nil
				}),
			})

			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

// formatEvent — одна строка на событие: день, статус, длительность и результат.
func formatEvent(p mq.RunCompletedPayload) string {
	result := strings.Join(p.Output, " | ")
	if p.Status == domain.RunStatusFailed {
		result = firstLine(p.Error)
	}
	duration := (time.Duration(p.DurationMS) * time.Millisecond).String()
	return fmt.Sprintf("%d/day%d %s %s %s", p.Year, p.Day, p.Status, duration, result)
}
