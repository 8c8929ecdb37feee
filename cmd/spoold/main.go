package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spoolio/spool/pkg/config"
	"github.com/spoolio/spool/pkg/httpd"
	"github.com/spoolio/spool/pkg/logging"
	"github.com/spoolio/spool/pkg/observability/otel"
	"github.com/spoolio/spool/pkg/observability/prometheus"
	"github.com/spoolio/spool/pkg/pool"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	flag.Parse()

	logger := logging.NewDefaultLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("failed to load configuration: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if cfg.Tracing.Exporter != "" && cfg.Tracing.Exporter != "none" {
		otelConfig := otel.DefaultConfig()
		otelConfig.Exporter = cfg.Tracing.Exporter
		otelConfig.Endpoint = cfg.Tracing.Endpoint
		otelConfig.Environment = cfg.Tracing.Environment
		otelConfig.SampleRate = cfg.Tracing.SampleRate

		if err := otel.Initialize(ctx, otelConfig); err != nil {
			logger.Errorf("failed to initialize tracing: %v", err)
			os.Exit(1)
		}
	}

	var metrics *prometheus.Metrics
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics = prometheus.GetMetrics()

		mux := http.NewServeMux()
		mux.Handle("/metrics", prometheus.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Infof("metrics listening on %s", cfg.Metrics.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("metrics server failed: %v", err)
			}
		}()
	}

	server, err := httpd.New(&httpd.Config{
		Address:     cfg.Server.Address,
		Port:        cfg.Server.Port,
		PagesDir:    cfg.Server.PagesDir,
		Sleep:       time.Duration(cfg.Server.SleepSeconds) * time.Second,
		MaxRequests: cfg.Server.MaxRequests,
		Workers:     cfg.Pool.Workers,
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		logger.Errorf("failed to create server: %v", err)
		os.Exit(1)
	}

	errc := make(chan error, 1)
	go func() { errc <- server.Start() }()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigc:
		logger.Infof("received %s; shutting down", sig)
		exitCode = stopServer(server, logger)
	case err := <-errc:
		if err != nil {
			logger.Errorf("server error: %v", err)
			exitCode = 1
		}
		// Start returning on its own (max_requests) already drained the pool;
		// Stop is idempotent and reports any worker panic it recorded.
		if code := stopServer(server, logger); code != 0 {
			exitCode = code
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("metrics server shutdown: %v", err)
		}
	}
	if err := otel.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("tracing shutdown: %v", err)
	}

	os.Exit(exitCode)
}

// stopServer stops the server and decides the exit code. A worker killed by
// a panicking job is a fatal condition: log it and exit nonzero instead of
// masking it.
func stopServer(server *httpd.Server, logger logging.Logger) int {
	err := server.Stop()
	if err == nil {
		return 0
	}

	var panicErr *pool.WorkerPanicError
	if errors.As(err, &panicErr) {
		logger.Errorf("worker %d died during shutdown: %v\n%s",
			panicErr.WorkerID, panicErr.Value, panicErr.Stack)
	} else {
		logger.Errorf("shutdown failed: %v", err)
	}
	return 1
}
