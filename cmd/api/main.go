package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/catalog"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/config"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/holidays"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-bakery-reserve.git/internal/kafka"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/postgres"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/redisx"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/reservations"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := postgres.Migrate(cfg.MigrationsDir, cfg.PostgresDSN); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// dua producer, satu per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, reservations.TopicCreated, 1024)
	pCreated.Start(ctx)
	pCancelled := kafkax.NewProducer(cfg.KafkaBrokers, reservations.TopicCancelled, 1024)
	pCancelled.Start(ctx)

	products := &catalog.Repo{DB: db, Redis: rdb}
	holidayRepo := &holidays.Repo{
		DB:       db,
		Redis:    rdb,
		Fallback: holidays.Default(cfg.DefaultClosedWeekday),
	}
	resRepo := &reservations.Repo{DB: db}
	svc := &reservations.Service{
		Store:             resRepo,
		Catalog:           products,
		Calendar:          holidayRepo,
		CreatedProducer:   pCreated,
		CancelledProducer: pCancelled,
		ServiceName:       cfg.ServiceName,
	}

	router := httpx.NewRouter()
	(&httpx.StoreHandler{Products: products, Holidays: holidayRepo, Service: svc}).Register(router)
	(&httpx.AdminHandler{
		Products:     products,
		Holidays:     holidayRepo,
		Reservations: resRepo,
		Service:      svc,
		AdminToken:   cfg.AdminToken,
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	pCreated.Close()
	pCancelled.Close()
	cancel()
	pCreated.WaitClosed()
	pCancelled.WaitClosed()
}
