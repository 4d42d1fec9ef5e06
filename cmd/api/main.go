package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tchindavaldo/yaammoo-core/internal/config"
	"github.com/Tchindavaldo/yaammoo-core/internal/kafka"
	"github.com/Tchindavaldo/yaammoo-core/internal/postgres"
	"github.com/Tchindavaldo/yaammoo-core/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store server.Store
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		store = &server.PGStore{DB: pool}
	default:
		store = server.NewMemStore()
	}

	prod := kafka.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic, 256)
	prod.Start(ctx)

	h := &server.Handler{
		Store:     store,
		Events:    prod,
		Service:   cfg.ServiceName,
		PublicURL: cfg.APIBaseURL,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("api: listening on %s (store=%s)", cfg.HTTPAddr, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("api: serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("api: shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Printf("api: shutdown: %v", err)
	}

	prod.WaitClosed()
	log.Println("api: bye")
}
