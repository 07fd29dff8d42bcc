// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// hioload-pool serves the static two-route responder on a fixed-size
// thread pool and exposes pool metrics for Prometheus.

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-pool/control"
	"github.com/momentics/hioload-pool/internal/concurrency"
	"github.com/momentics/hioload-pool/server"
)

type cliFlags struct {
	configPath    string
	workers       int
	affinity      bool
	listen        string
	metricsListen string
	docRoot       string
	logLevel      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd, _ := newRootCmdWithFlags()
	return cmd
}

func newRootCmdWithFlags() (*cobra.Command, *cliFlags) {
	f := &cliFlags{}
	cmd := &cobra.Command{
		Use:          "hioload-pool",
		Short:        "Static two-route HTTP responder backed by a fixed-size thread pool",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, cmd.ErrOrStderr())
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "path to YAML config file")
	fl.IntVarP(&f.workers, "workers", "w", 0, "number of pool workers")
	fl.BoolVar(&f.affinity, "cpu-affinity", false, "pin each worker thread to a CPU")
	fl.StringVar(&f.listen, "listen", "", "listener address")
	fl.StringVar(&f.metricsListen, "metrics-listen", "", "metrics address, \"-\" disables")
	fl.StringVar(&f.docRoot, "doc-root", "", "directory holding hello.html and 404.html")
	fl.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	return cmd, f
}

// loadConfig reads the config file, if any, and applies flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command, f *cliFlags) (*control.Config, error) {
	cfg := control.DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = control.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	fl := cmd.Flags()
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("cpu-affinity") {
		cfg.CPUAffinity = f.affinity
	}
	if fl.Changed("listen") {
		cfg.Server.Listen = f.listen
	}
	if fl.Changed("metrics-listen") {
		cfg.Metrics.Listen = f.metricsListen
		if f.metricsListen == "-" {
			cfg.Metrics.Listen = ""
		}
	}
	if fl.Changed("doc-root") {
		cfg.Server.DocRoot = f.docRoot
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run owns the pool for the lifetime of the process; the deferred Shutdown
// drains every accepted connection before returning.
func run(ctx context.Context, cfg *control.Config, logOut io.Writer) error {
	log, err := control.NewLogger(cfg.Log, logOut)
	if err != nil {
		return err
	}

	opts := []concurrency.Option{concurrency.WithLogger(log)}
	if cfg.CPUAffinity {
		opts = append(opts, concurrency.WithCPUAffinity())
	}
	pool, err := concurrency.NewThreadPool(cfg.Workers, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := pool.Shutdown(); err != nil {
			log.WithError(err).Error("jobs failed while serving")
		}
	}()

	srv, err := server.New(&server.Config{
		ListenAddr:   cfg.Server.Listen,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, pool, server.WithLogger(log), server.WithDocRoot(cfg.Server.DocRoot))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(gctx) })

	if cfg.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			control.NewPoolCollector(cfg.Metrics.Namespace, pool),
			collectors.NewGoCollector(),
		)
		accessLog := log.WithField("component", "metrics").WriterLevel(logrus.DebugLevel)
		defer accessLog.Close()

		ms := &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           control.NewMetricsHandler(reg, accessLog),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.WithField("addr", ms.Addr).Info("metrics endpoint listening")
			if err := ms.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return ms.Shutdown(shutCtx)
		})
	}

	return g.Wait()
}
