package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"telar/internal/commons"
	"telar/internal/config"
	"telar/internal/infrastructure/logger"
	"telar/internal/infrastructure/mysql"
	"telar/internal/notification"
	"telar/internal/notification/outbox"
	"telar/internal/order"
	sagasqlite "telar/internal/order/saga/sagalog/sqlite"
	"telar/internal/server"
)

func main() {
	var cfg *config.Config
	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err = commons.LoadConfig(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	sagaLog, err := sagasqlite.Open(cfg.Order.SagaLogPath)
	if err != nil {
		zapLogger.Fatal("opening saga log", zap.Error(err))
	}
	defer sagaLog.Close()

	orderModule := order.NewModule(db, sagaLog, cfg, zapLogger)

	transport, err := notification.NewTransport(cfg.Notify, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating notification transport", zap.Error(err))
	}
	dispatcher := outbox.NewDispatcher(
		outbox.NewMySQLOutboxRepository(db),
		transport,
		zapLogger,
		cfg.Outbox.PollInterval,
		cfg.Outbox.MaxAttempts,
	)

	router := server.NewRouter(orderModule, zapLogger)
	srv := server.New(cfg.Server.Port, router, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		err := dispatcher.Run(gCtx)
		if err == context.Canceled {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gCtx.Done()
		zapLogger.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
