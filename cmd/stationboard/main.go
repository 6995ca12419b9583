package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stationboard/internal/board"
	"stationboard/internal/config"
	"stationboard/internal/persist"
	"stationboard/internal/server"
	"stationboard/internal/storage/sqlite"
	"stationboard/internal/util"
)

func main() {
	configFlag := flag.String("config", util.EnvOrDefault("BOARD_CONFIG", ""), "Path to optional YAML settings file")
	addrFlag := flag.String("addr", util.EnvOrDefault("BOARD_ADDR", ""), "HTTP listen address")
	dbFlag := flag.String("db", util.EnvOrDefault("BOARD_DB_PATH", ""), "Path to sqlite database file")
	staticFlag := flag.String("static", util.EnvOrDefault("BOARD_STATIC_DIR", ""), "Directory with built frontend")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("Station Board v.1.0.0")

	settings, err := config.Load(*configFlag)
	if err != nil {
		logger.Error("unable to load settings", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *addrFlag != "" {
		settings.Addr = *addrFlag
	}
	if *dbFlag != "" {
		settings.DBPath = *dbFlag
	}
	if *staticFlag != "" {
		settings.StaticDir = *staticFlag
	}
	settings.TickInterval = util.EnvDurationOrDefault("BOARD_TICK_INTERVAL", settings.TickInterval)

	blobs, err := sqlite.Open(settings.DBPath, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer blobs.Close()

	gateway := persist.NewGateway(blobs, logger, settings.DebounceWindow)
	store := board.New(gateway, logger, board.Options{TickInterval: settings.TickInterval})
	store.Start()

	srv := server.New(store, logger, settings.StaticDir)

	httpServer := &http.Server{
		Addr:    settings.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	// Stops the tick loop and flushes any pending board write.
	store.Stop()

	logger.Info("server stopped")
}
