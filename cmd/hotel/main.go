package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/hotel-occupancy/internal/application"
	"github.com/example/hotel-occupancy/internal/config"
	httptransport "github.com/example/hotel-occupancy/internal/http"
	"github.com/example/hotel-occupancy/internal/logging"
	"github.com/example/hotel-occupancy/internal/metrics"
	"github.com/example/hotel-occupancy/internal/persistence"
	"github.com/example/hotel-occupancy/internal/persistence/memory"
	"github.com/example/hotel-occupancy/internal/persistence/sqlite"
	"github.com/example/hotel-occupancy/internal/room"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
		os.Exit(1)
	}

	configPath := flag.String("config", os.Getenv("HOTEL_CONFIG"), "path to a TOML configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "hotel: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, logOutput io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOutput)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return err
	}
	defer a.close()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("hotel API listening", "addr", server.Addr, "storage", cfg.Storage)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// roomStore is a room repository that can be health checked and closed.
type roomStore interface {
	persistence.RoomRepository
	Ping(ctx context.Context) error
	Close() error
}

type app struct {
	service *application.HotelService
	handler http.Handler
	store   roomStore
	logger  *slog.Logger
}

// newApp opens storage, loads the hotel and builds the HTTP handler.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var recorder *metrics.Metrics
	if cfg.MetricsEnabled {
		recorder = metrics.New()
	}

	registry, err := room.NewRegistry()
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	deps := application.HotelServiceDeps{
		Registry: registry,
		Rooms:    store,
		Location: location,
		Logger:   logger,
	}
	if recorder != nil {
		deps.Recorder = recorder
	}
	service := application.NewHotelService(deps)

	if _, err := service.Load(ctx, cfg.RoomCount); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	routerCfg := httptransport.RouterConfig{
		Rooms:  httptransport.NewRoomHandler(service, logger),
		Health: store,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recover(logger),
		},
	}
	if recorder != nil {
		routerCfg.Metrics = recorder.Handler()
		routerCfg.MetricsPath = cfg.MetricsPath
	}

	return &app{
		service: service,
		handler: httptransport.NewRouter(routerCfg),
		store:   store,
		logger:  logger,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (roomStore, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.New(), nil
	default:
		return sqlite.Open(ctx, sqlite.DefaultConfig(cfg.SQLiteDSN))
	}
}
