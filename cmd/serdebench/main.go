// Command serdebench drives the codec benchmarks: it encodes, decodes and round-trips the
// synthetic document and the fixed datasets, and compares encoded sizes across formats.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/wavesplatform/goserde/pkg/bench"
	"github.com/wavesplatform/goserde/pkg/logging"
)

const (
	defaultTimeout  = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg := new(config)
	if err := cfg.parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		slog.Error("Failed to parse parameters", logging.Error(err))
		return 2
	}
	slog.SetDefault(slog.New(logging.DefaultHandler(cfg.lp)))
	slog.Debug("Starting with parameters", "parameters", cfg.String())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	r := &runner{
		cfg:     cfg,
		fs:      afero.NewOsFs(),
		stdout:  os.Stdout,
		surface: bench.NewSurface(bench.Default().Recorder(), logging.Namespace(slog.Default(), "bench")),
		log:     logging.Namespace(slog.Default(), cfg.command),
	}
	if err := r.run(ctx); err != nil {
		slog.Error("Command failed", "command", cfg.command, logging.Error(err))
		return 1
	}
	if cfg.prometheus != "" {
		if err := runPrometheusMetricsServer(ctx, cfg.prometheus); err != nil {
			slog.Error("Metrics server failed", logging.Error(err))
			return 1
		}
	}
	return 0
}

// runPrometheusMetricsServer serves /metrics on addr until ctx is done. It returns early with an
// error if the server can't start.
func runPrometheusMetricsServer(ctx context.Context, addr string) error {
	h := http.NewServeMux()
	h.Handle("/metrics", promhttp.Handler())
	s := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: defaultTimeout,
		ReadTimeout:       defaultTimeout,
	}
	served := make(chan error, 1)
	go func() {
		served <- s.ListenAndServe()
	}()
	slog.Info("Serving metrics until interrupted", "address", addr)
	select {
	case err := <-served:
		return errors.Wrap(err, "failed to start prometheus metrics server")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shutdown prometheus metrics server")
	}
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "prometheus metrics server failed")
	}
	return nil
}
