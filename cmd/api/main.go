package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmidable/parkingsystem/internal/app"
	"github.com/charmidable/parkingsystem/internal/clock"
	"github.com/charmidable/parkingsystem/internal/config"
	"github.com/charmidable/parkingsystem/internal/fare"
	"github.com/charmidable/parkingsystem/internal/storage/memory"
	"github.com/charmidable/parkingsystem/internal/storage/postgres"
	transporthttp "github.com/charmidable/parkingsystem/internal/transport/http"
	"github.com/charmidable/parkingsystem/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	var inventory app.SpotInventory
	var ledger app.TicketLedger

	switch cfg.Storage.Driver {
	case "memory":
		inventory = memory.NewInventory(cfg.Storage.CarSpots, cfg.Storage.BikeSpots)
		ledger = memory.NewLedger()
		logger.Info("using in-memory storage",
			"car_spots", cfg.Storage.CarSpots,
			"bike_spots", cfg.Storage.BikeSpots,
		)
	case "postgres":
		startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		pool, err := pgxpool.New(startupCtx, cfg.Storage.DatabaseURL)
		if err != nil {
			logger.Error("connect to db", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(startupCtx); err != nil {
			logger.Error("db ping", "err", err)
			os.Exit(1)
		}
		if err := migrations.Apply(startupCtx, pool); err != nil {
			logger.Error("apply migrations", "err", err)
			os.Exit(1)
		}

		inventory = postgres.NewSpotRepository(pool)
		ledger = postgres.NewTicketRepository(pool)
		logger.Info("using postgres storage")
	default:
		logger.Error("unknown storage driver", "driver", cfg.Storage.Driver)
		os.Exit(1)
	}

	calculator := fare.NewCalculator(fare.Rates{
		Car:  cfg.Fare.CarRatePerHour,
		Bike: cfg.Fare.BikeRatePerHour,
	})
	svc := app.NewParkingService(inventory, ledger, calculator, clock.NewSystem())

	server := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: transporthttp.NewRouter(svc, logger),
	}

	logger.Info("api listening", "port", cfg.HTTP.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "err", err)
	}
	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
