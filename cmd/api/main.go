package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"recruit-backend/internal/bootstrap"
	"recruit-backend/internal/server"
	"recruit-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg, false)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	// With the in-memory queue, jobs are processed inside this process.
	if cfg.QueueMode == "memory" {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		w := app.NewWorker()
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Printf("worker stopped: %v", err)
			}
		}()
	}

	r := server.NewEngine(server.Deps{
		Config:       cfg,
		DB:           app.DB,
		Queue:        app.Queue,
		Candidates:   app.Candidates,
		Postings:     app.Postings,
		Applications: app.Applications,
		Store:        app.Store,
	})

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
