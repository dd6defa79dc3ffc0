package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/config"
	kafkax "github.com/ariefcatur/go-bakery-reserve.git/internal/kafka"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/notify"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/redisx"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/reservations"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiOr(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Mailer:      notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom),
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
		ShopName:    cfg.ShopName,
		ShopMail:    cfg.ShopMail,
	}

	group := getenv("NOTIFIER_GROUP", "bakery-notifier")
	workers := atoiOr(os.Getenv("NOTIFIER_WORKERS"), 4)

	consCreated := kafkax.NewConsumer(cfg.KafkaBrokers, group, reservations.TopicCreated, workers)
	consCancelled := kafkax.NewConsumer(cfg.KafkaBrokers, group, reservations.TopicCancelled, workers)

	run := func(name string, c *kafkax.Consumer, h kafkax.Handler) {
		go func() {
			log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, name, workers)
			if err := c.Start(ctx, h); err != nil {
				log.Printf("consumer %s exit: %v", name, err)
				cancel()
			}
		}()
	}
	run(reservations.TopicCreated, consCreated, svc.HandleCreated)
	run(reservations.TopicCancelled, consCancelled, svc.HandleCancelled)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down notifier...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
