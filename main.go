package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flight_logbook/internal/app"
	"flight_logbook/internal/config"
	"flight_logbook/internal/mockserver"
)

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	mockAddr := flag.String("mock", "", "Serve an in-memory backend on this address (e.g. :8086) and use it")
	mockFlights := flag.Int("mock-flights", 120, "Number of flights seeded into the mock backend")
	exportPath := flag.String("export", "", "Write the logbook as CSV to this path and exit")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("LOGBOOK_CONFIG_PATH", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		// Logger isn't initialized yet
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	var mock *http.Server
	if *mockAddr != "" {
		seed := mockserver.DefaultSeed(*mockFlights)
		seed.Token = cfg.API.Token
		mock, err = mockserver.New(seed).Start(*mockAddr)
		if err != nil {
			slog.Error("Failed to start mock backend", "error", err)
			os.Exit(1)
		}
		cfg.API.BaseURL = "http://" + loopback(*mockAddr)
	}
	// os.Exit skips deferred calls, so exit paths stop the mock explicitly
	defer stopMock(mock)

	logbook, err := app.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize logbook", "error", err)
		stopMock(mock)
		os.Exit(1)
	}

	if err := logbook.Start(); err != nil {
		slog.Error("Failed to start logbook", "error", err)
		logbook.Stop()
		stopMock(mock)
		os.Exit(1)
	}

	if *exportPath != "" {
		code := runExport(logbook, *exportPath)
		logbook.Stop()
		stopMock(mock)
		os.Exit(code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	key := logbook.FlightKey("")
	if _, err := logbook.Flights.RequestNext(ctx, key); err != nil {
		slog.Warn("Failed to load flights", "error", err)
	} else {
		state := logbook.Flights.State(key)
		slog.Info("Flights loaded", "count", len(state.Items), "has_more", state.HasMore)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received interrupt signal, shutting down...")

	cancel()
	if err := logbook.Stop(); err != nil {
		slog.Error("Error stopping logbook", "error", err)
	}

	slog.Info("Shutdown complete")
}

func runExport(logbook *app.App, path string) int {
	f, err := os.Create(path)
	if err != nil {
		slog.Error("Failed to create export file", "path", path, "error", err)
		return 1
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := logbook.ExportFlights(ctx, f); err != nil {
		slog.Error("Failed to export flights", "error", err)
		return 1
	}
	slog.Info("Exported logbook", "path", path)
	return 0
}

// stopMock shuts down the in-memory backend, if one is running
func stopMock(mock *http.Server) {
	if mock == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := mock.Shutdown(ctx); err != nil {
		slog.Warn("Failed to stop mock backend", "error", err)
	}
}

// loopback turns a listen address like ":8086" into a dialable one
func loopback(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	return addr
}
