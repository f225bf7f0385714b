package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"recruit-backend/internal/bootstrap"
	"recruit-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()
	if cfg.QueueMode != "sqs" {
		log.Fatal("the standalone worker requires QUEUE_MODE=sqs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg, true)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	w := app.NewWorker()
	log.Printf("worker started queue=%s concurrency=%d", cfg.QueueURL, cfg.WorkerConcurrency)

	if err := w.Run(ctx); err != nil {
		log.Fatalf("worker error: %v", err)
	}
}
