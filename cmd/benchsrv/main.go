// benchsrv serves the benchmark HTTP API and persists results to SQLite.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/vanaluk/sharedptr/server"
	"github.com/vanaluk/sharedptr/store"
)

const shutdownGrace = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	port := flag.String("port", "", "listen port, overrides the config file")
	dbPath := flag.String("db", "", "SQLite path, overrides the config file")
	flag.Parse()

	cfg := server.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = server.LoadConfig(*configPath)
		if err != nil {
			slog.Error("loading config failed", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	slog.SetLogLoggerLevel(logLevel(cfg.LogLevel))

	var st *store.Store
	if cfg.DatabasePath != "" {
		var err error
		st, err = store.Open(cfg.DatabasePath)
		if err != nil {
			slog.Warn("opening result store failed, continuing without persistence",
				"path", cfg.DatabasePath, "error", err)
		} else {
			defer st.Close()
		}
	}

	srv := server.New(cfg, st)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Run() }()

	select {
	case err := <-errc:
		if err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
