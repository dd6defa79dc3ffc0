package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-bakery-reserve.git/internal/kafka"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/redisx"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/reservations"
)

// Service kirim email transaksional dari event reservasi. Sisi commit
// tidak menunggu kami: semua kegagalan di sini cuma di-log.
type Service struct {
	Mailer      Mailer
	Redis       *redis.Client
	ServiceName string
	ShopName    string
	ShopMail    string
}

// HandleCreated: consumer handler topic reservation.created.
// Return nil juga saat email gagal -> offset tetap di-commit; retry
// pengiriman bukan kontrak sistem ini.
func (s *Service) HandleCreated(ctx context.Context, m kafkago.Message) error {
	var env reservations.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != reservations.EventReservationCreated {
		return nil // ignore
	}
	if s.seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[reservations.ReservationCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	s.send(p.Reservation.Email,
		fmt.Sprintf("【%s】ご予約を承りました（%s）", s.ShopName, p.Reservation.ID),
		confirmationBody(s.ShopName, p.Reservation, p.Items))
	s.send(s.ShopMail,
		fmt.Sprintf("新規予約 %s（%s %s）", p.Reservation.ID, p.Reservation.Date, p.Reservation.Time),
		shopBody(p.Reservation, p.Items))
	return nil
}

// HandleCancelled: consumer handler topic reservation.cancelled.
func (s *Service) HandleCancelled(ctx context.Context, m kafkago.Message) error {
	var env reservations.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != reservations.EventReservationCancelled {
		return nil
	}
	if s.seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[reservations.ReservationCancelledPayload](env.Payload)
	if err != nil {
		return err
	}

	s.send(p.Reservation.Email,
		fmt.Sprintf("【%s】ご予約キャンセルのお知らせ（%s）", s.ShopName, p.Reservation.ID),
		cancellationBody(s.ShopName, p.Reservation, p.Reason))
	return nil
}

// seen: dedup via Redis pakai event_id, gaya at-least-once consumer.
func (s *Service) seen(ctx context.Context, eventID string) bool {
	if s.Redis == nil {
		return false
	}
	key := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, eventID)
	exists, _ := redisx.Exists(ctx, s.Redis, key)
	if exists {
		return true
	}
	_ = s.Redis.Set(ctx, key, "1", redisx.TTLDedup).Err()
	return false
}

func (s *Service) send(to, subject, body string) {
	if to == "" {
		return
	}
	if err := s.Mailer.Send(to, subject, body); err != nil {
		log.Printf("mail to=%s subject=%q: %v", to, subject, err)
	}
}
