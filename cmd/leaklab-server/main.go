// Package main provides the entry point for leaklab-server.
//
// leaklab-server is a memory-leak playground: an HTTP service that
// hosts five controllable leak-pattern engines and a heap snapshot
// facility for observing them.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/yndnr/leaklab-go/internal/heapsnap"
	"github.com/yndnr/leaklab-go/internal/infra/buildinfo"
	"github.com/yndnr/leaklab-go/internal/infra/confloader"
	"github.com/yndnr/leaklab-go/internal/infra/shutdown"
	"github.com/yndnr/leaklab-go/internal/leak"
	"github.com/yndnr/leaklab-go/internal/server/config"
	"github.com/yndnr/leaklab-go/internal/server/httpserver"
	"github.com/yndnr/leaklab-go/internal/server/httpserver/handler"
	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("leaklab-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting leaklab-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	// Leak engines
	engines := leak.NewSet(leak.Config{
		TickInterval:         cfg.Leak.TickInterval,
		CachePayloadBytes:    cfg.Leak.CachePayloadBytes,
		ClosurePayloadBytes:  cfg.Leak.ClosurePayloadBytes,
		ListenerPayloadBytes: cfg.Leak.ListenerPayloadBytes,
		GlobalPayloadBytes:   cfg.Leak.GlobalPayloadBytes,
	}, log)

	// Readiness gate, toggled off while a signal-driven capture runs.
	ready := &atomic.Bool{}
	ready.Store(true)

	snapOpts := heapsnap.Options{
		Label:     cfg.Snapshot.Label,
		OutputDir: cfg.Snapshot.Dir,
		Interval:  cfg.Snapshot.Interval,
		Immediate: cfg.Snapshot.Immediate,
		BeforeGC:  cfg.Snapshot.BeforeGC,
		Logger:    log,
	}

	httpHandler := handler.New(handler.Config{
		Engines:         engines,
		SnapshotOptions: snapOpts,
		Ready:           ready,
		Logger:          log,
	})

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Handler:   httpHandler,
		Logger:    log,
		RateLimit: cfg.Server.HTTP.RateLimit,
		RateBurst: cfg.Server.HTTP.RateBurst,
	})

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Shutdown hooks run in reverse order of startup.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("stopping auto-snapshot job")
		return httpHandler.StopJob(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("stopping leak engines")
		engines.StopAll()
		return nil
	})

	// Reload the log level when the config file changes.
	if *configFile != "" {
		watcher, err := watchConfig(*configFile, log)
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(ctx context.Context) error {
				return watcher.Stop()
			})
		}
	}

	// SIGUSR2 captures one snapshot out of band.
	go watchCaptureSignal(snapOpts, ready, log)

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// watchConfig re-reads the config file on change and reapplies the log
// level. Other settings require a restart.
func watchConfig(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg := config.Default()
		loader := confloader.NewLoader(confloader.WithConfigFile(path))
		if err := loader.Load(cfg); err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})

	watcher.StartAsync()
	return watcher, nil
}

// watchCaptureSignal writes one heap snapshot per SIGUSR2. The
// readiness gate drops while the capture runs so probes can observe it.
func watchCaptureSignal(opts heapsnap.Options, ready *atomic.Bool, log logger.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR2)

	var inFlight atomic.Bool
	for range sigCh {
		if !inFlight.CompareAndSwap(false, true) {
			log.Warn("snapshot capture already in progress, signal ignored")
			continue
		}

		go func() {
			defer inFlight.Store(false)

			ready.Store(false)
			defer ready.Store(true)

			path, err := heapsnap.Write(opts.Label, opts.OutputDir)
			if err != nil {
				log.Error("signal-triggered snapshot failed", "error", err)
				return
			}
			log.Info("signal-triggered snapshot written", "path", path)
		}()
	}
}
