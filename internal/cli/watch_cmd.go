package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/girder/internal/cli/formatter"
	"github.com/alexanderramin/girder/internal/importer"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var (
		once        bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-check a schedule file every time it changes",
		Long: "Evaluate a JSON, YAML or HCL schedule file without importing it and\n" +
			"print its conflicts and critical path on every save. Invalid saves are\n" +
			"reported and the last valid version is kept.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			w, err := importer.NewWatcher(args[0])
			if err != nil {
				return err
			}
			if err := reportScheduleFile(out, app, w.File()); err != nil {
				return err
			}
			if once {
				return nil
			}

			log := app.logger().With("file", args[0])
			w.OnChange(func(f *importer.ScheduleFile) {
				app.recordReload(nil)
				if err := reportScheduleFile(out, app, f); err != nil {
					log.Error("evaluating schedule file", "error", err)
				}
			})
			w.OnError(func(err error) {
				app.recordReload(err)
				log.Warn("schedule file rejected, keeping last valid version", "error", err)
			})

			stop, err := w.Watch()
			if err != nil {
				return err
			}
			defer stop()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if metricsAddr == "" {
				metricsAddr = app.Config.MetricsAddr
			}
			if metricsAddr != "" && app.Gatherer != nil {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           metricsMux(app),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("metrics server", "addr", metricsAddr, "error", err)
					}
				}()
				defer func() {
					shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
					defer done()
					_ = srv.Shutdown(shutdownCtx)
				}()
				log.Info("serving metrics", "addr", metricsAddr)
			}

			log.Info("watching schedule file")
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Evaluate the file once and exit")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (default from config)")
	return cmd
}

func metricsMux(app *App) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.Gatherer, promhttp.HandlerOpts{}))
	return mux
}

// reportScheduleFile runs the engine over an unsaved schedule file.
func reportScheduleFile(out io.Writer, app *App, f *importer.ScheduleFile) error {
	conv, err := importer.Convert(f)
	if err != nil {
		return err
	}
	g := conv.Graph()
	engine := app.engine()
	conflicts := engine.FindConflicts(g)
	critical := engine.CriticalPath(g)
	if app.Metrics != nil {
		app.Metrics.RecordConflicts(conflicts)
		app.Metrics.RecordCriticalPath(critical)
	}

	fmt.Fprintf(out, "%s  %s\n", formatter.Bold(conv.Schedule.DisplayID()), formatter.Dim(time.Now().Format("15:04:05")))
	fmt.Fprint(out, formatter.FormatConflicts(conflicts))
	fmt.Fprint(out, formatter.FormatCriticalPath(g, critical))
	fmt.Fprintln(out)
	return nil
}

func (app *App) recordReload(err error) {
	if app.Metrics != nil {
		app.Metrics.RecordReload(err)
	}
}
