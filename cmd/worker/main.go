package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill-bridge/internal/app"
	"skill-bridge/internal/config"
	"skill-bridge/internal/pkg/logger"
	"skill-bridge/internal/queue"
	"skill-bridge/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, lg *logger.Logger) error {
	initCtx, initCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	c, err := app.NewContainer(initCtx, cfg, lg)
	initCancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			lg.Warn("cleanup error", "error", err)
		}
	}()

	if c.Broker == nil {
		return queue.ErrQueueDisabled
	}
	if !c.Redis.Available() {
		lg.Warn("redis unavailable; sessions analyzed here are not visible to the server")
	}

	ch, err := c.Broker.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	workers := cfg.Queue.WorkerCount
	deliveries, err := c.Broker.ConsumeAnalysis(ch, workers)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := c.NewSessionUsecase(c.Publisher)
	pool := worker.NewPool(workers, workers)
	results := pool.Run(ctx)
	go func() {
		for range results {
		}
	}()
	defer func() {
		pool.Close()
		// In-flight analyses still ack on ch and write through c.
		pool.Wait()
	}()

	consumer := queue.NewConsumer(pool, func(ctx context.Context, msg queue.AnalysisMessage) error {
		_, err := sessions.Analyze(ctx, msg.SessionID, msg.Request())
		return err
	}, lg)

	lg.Info("worker consuming", "queue", cfg.Queue.AnalysisQueue, "workers", pool.Workers())
	err = consumer.Run(ctx, deliveries)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
