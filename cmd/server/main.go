package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/scl-host/sclindexer/internal/api"
	"github.com/scl-host/sclindexer/internal/api/handlers"
	"github.com/scl-host/sclindexer/internal/chainadapter"
	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/executor"
	"github.com/scl-host/sclindexer/internal/index"
	"github.com/scl-host/sclindexer/internal/logging"
	"github.com/scl-host/sclindexer/internal/queue"
	"github.com/scl-host/sclindexer/internal/runtimeconfig"
	"github.com/scl-host/sclindexer/internal/store"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case "rebuild-index":
		if err := runRebuildIndex(); err != nil {
			slog.Error("rebuild-index error", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("sclindexer %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: sclindexer <command>

Commands:
  serve           Start the scheduler and HTTP read/write server
  rebuild-index   Rebuild the sqlite read-index from the flat-file store
  version         Print version information
`)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logCloser.Close()

	slog.Info("starting sclindexer",
		"version", version,
		"network", cfg.Network,
		"port", cfg.Port,
		"jsonDir", cfg.JSONDir,
		"logLevel", cfg.LogLevel,
	)

	st := store.New(cfg.JSONDir)

	rtcfg, err := runtimeconfig.Open(cfg.JSONDir)
	if err != nil {
		return fmt.Errorf("failed to open runtime config: %w", err)
	}

	queues, err := queue.Open(cfg.JSONDir)
	if err != nil {
		return fmt.Errorf("failed to open queues: %w", err)
	}

	idx, err := index.Open(cfg.JSONDir + "/sclindexer.sqlite")
	if err != nil {
		return fmt.Errorf("failed to open read-index: %w", err)
	}
	defer idx.Close()

	if err := idx.Rebuild(st); err != nil {
		slog.Warn("read-index rebuild on startup failed", "error", err)
	}

	chain := chainadapter.New(cfg.EsploraURL, cfg.JSONDir)
	exec := executor.New(chain, st, rtcfg, slog.Default())

	sched := queue.New(chain, exec, st, rtcfg, queues, slog.Default(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	slog.Info("scheduler started")

	hosts := splitHosts(cfg.RelayHosts)
	deps := &handlers.Deps{
		Chain:    chain,
		Store:    st,
		Exec:     exec,
		Queues:   queues,
		RTCfg:    rtcfg,
		Index:    idx,
		Log:      slog.Default(),
		RelayKey: cfg.RelayKey,
		Hosts:    hosts,
		SelfIP:   cfg.MyIP,
	}

	router := api.NewRouter(deps)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    config.ServerReadTimeout,
		WriteTimeout:   config.ServerWriteTimeout,
		IdleTimeout:    config.ServerIdleTimeout,
		MaxHeaderBytes: config.ServerMaxHeaderBytes,
	}

	slog.Info("server configured",
		"readTimeout", config.ServerReadTimeout,
		"writeTimeout", config.ServerWriteTimeout,
		"idleTimeout", config.ServerIdleTimeout,
		"maxHeaderBytes", config.ServerMaxHeaderBytes,
	)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("initiating graceful shutdown", "timeout", config.ShutdownTimeout)

	cancel()
	slog.Info("scheduler context cancelled")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

func runRebuildIndex() error {
	fs := flag.NewFlagSet("rebuild-index", flag.ExitOnError)
	jsonDir := fs.String("json-dir", "", "Flat-file store directory (default: from SCL_JSON_DIR or ./Json)")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *jsonDir != "" {
		cfg.JSONDir = *jsonDir
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logCloser.Close()

	st := store.New(cfg.JSONDir)
	idx, err := index.Open(cfg.JSONDir + "/sclindexer.sqlite")
	if err != nil {
		return fmt.Errorf("open read-index: %w", err)
	}
	defer idx.Close()

	if err := idx.Rebuild(st); err != nil {
		return fmt.Errorf("rebuild read-index: %w", err)
	}

	slog.Info("read-index rebuilt")
	return nil
}

func splitHosts(raw string) []string {
	if raw == "" {
		return nil
	}
	var hosts []string
	for _, h := range strings.Split(raw, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
