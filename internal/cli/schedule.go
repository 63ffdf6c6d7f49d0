package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/advent/internal/api"
	"github.com/shaiso/advent/internal/scheduler"
	"github.com/shaiso/advent/internal/telemetry"
)

func newScheduleCmd(app *App) *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run each day's program when its puzzle unlocks",
		Long: `Schedule waits for puzzle unlocks (midnight America/New_York, December 1-25)
and runs the program of the unlocked day if it exists.
With METRICS_ADDR set, /metrics, /healthz and the /api/v1 runs API are served on that address.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b := app.openBackends(ctx)
			defer app.closeBackends(b)

			r := app.newRunner(b)

			if app.Config.MetricsAddr != "" {
				apiCfg := api.Config{Runner: r, Year: app.Config.Year, Logger: app.Logger}
				if b.store != nil {
					apiCfg.Runs = b.store
				}

				srv := newHTTPServer(app.Config.MetricsAddr, api.NewHandler(apiCfg))
				go func() {
					app.Logger.Info("http server listening", "addr", srv.Addr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						app.Logger.Error("http server failed", "error", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
			}

			sched := scheduler.New(scheduler.Config{
				Runner:   r,
				Programs: app.programs(),
				Logger:   app.Logger,
				Delay:    delay,
			})
			return sched.Start(ctx)
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 10*time.Second, "Wait after unlock before fetching input")

	return cmd
}

// newHTTPServer создаёт HTTP сервер с /healthz, /metrics и API.
func newHTTPServer(addr string, h *api.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", telemetry.MetricsHandler())
	h.RegisterRoutes(mux)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
