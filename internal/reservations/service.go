package reservations

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/availability"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/catalog"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/holidays"
	kafkax "github.com/ariefcatur/go-bakery-reserve.git/internal/kafka"
)

// Store: sisi persistensi commit. *Repo memenuhinya; test pakai mock.
type Store interface {
	Create(ctx context.Context, res Reservation, items []Item) (Reservation, error)
	UpdateStatus(ctx context.Context, id string, to Status) (Reservation, []Item, error)
	Delete(ctx context.Context, id string) error
}

// Catalog beri snapshot produk terkini untuk re-check stok saat commit
// (nilai render lama tidak dipercaya), dan cara membuang cache katalog
// setelah commit mengurangi stok.
type Catalog interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]catalog.Product, error)
	InvalidateCache(ctx context.Context)
}

// CalendarSource beri kalender libur aktif.
type CalendarSource interface {
	Get(ctx context.Context) holidays.Calendar
}

// Publisher: kanal notifikasi, fire-and-forget.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// CommitRequest: keranjang final + pilihan ambil + kontak pelanggan.
type CommitRequest struct {
	Type     Type       `json:"type"`
	Date     string     `json:"date"`
	Time     string     `json:"time"`
	Name     string     `json:"name"`
	Phone    string     `json:"phone"`
	Email    string     `json:"email"`
	Comments string     `json:"comments"`
	Cart     []CartLine `json:"cart"`
}

type Service struct {
	Store    Store
	Catalog  Catalog
	Calendar CalendarSource

	CreatedProducer   Publisher // topic reservation.created
	CancelledProducer Publisher // topic reservation.cancelled

	ServiceName string
	Now         func() time.Time // nil = time.Now
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Commit ubah keranjang tervalidasi jadi reservasi durable + item + stok
// berkurang, sebagai satu unit kerja. Urutan: validasi (tanpa side effect)
// -> id & total -> satu transaksi store -> invalidasi cache katalog ->
// publish event (kegagalan publish tidak mempengaruhi hasil commit).
func (s *Service) Commit(ctx context.Context, req CommitRequest) (Reservation, []Item, error) {
	products, err := s.validate(ctx, req)
	if err != nil {
		return Reservation{}, nil, err
	}

	total := 0
	items := make([]Item, 0, len(req.Cart))
	id := newReservationID(s.now())
	for _, line := range req.Cart {
		// harga dari snapshot keranjang, bukan produk terkini
		total += line.Price * line.Quantity
		items = append(items, Item{
			ReservationID: id,
			ProductID:     line.ProductID,
			ProductName:   products[line.ProductID].Name,
			Price:         line.Price,
			Quantity:      line.Quantity,
		})
	}

	res := Reservation{
		ID:         id,
		Type:       req.Type,
		Date:       req.Date,
		Time:       req.Time,
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Comments:   req.Comments,
		TotalPrice: total,
		Status:     StatusPending,
	}

	created, err := s.Store.Create(ctx, res, items)
	if err != nil {
		return Reservation{}, nil, err
	}

	// stok berubah di transaksi barusan; replika baca tidak boleh basi
	s.Catalog.InvalidateCache(ctx)

	s.publish(s.CreatedProducer, EventReservationCreated, created.ID,
		ReservationCreatedPayload{Reservation: created, Items: items})
	return created, items, nil
}

// validate cek semua prasyarat sebelum ada tulisan apa pun.
func (s *Service) validate(ctx context.Context, req CommitRequest) (map[string]catalog.Product, error) {
	if !req.Type.Valid() {
		return nil, validationf("予約タイプが不正です")
	}
	if len(req.Cart) == 0 {
		return nil, validationf("カートが空です")
	}
	if req.Date == "" {
		return nil, validationf("受取日を選択してください")
	}
	if req.Time == "" {
		return nil, validationf("受取時間を選択してください")
	}
	if !ValidTimeSlot(req.Time) {
		return nil, validationf("受取時間 %q は選択できません", req.Time)
	}
	if req.Name == "" || req.Phone == "" || req.Email == "" {
		return nil, validationf("お名前・電話番号・メールアドレスを入力してください")
	}

	mode := req.Type.Mode()
	cal := s.Calendar.Get(ctx)
	today := s.now()

	// tanggal harus salah satu kandidat jalurnya, dan tidak tutup
	found := false
	for _, c := range availability.CandidateDates(mode, cal, today) {
		if c.Date != req.Date {
			continue
		}
		found = true
		if c.Closed {
			reason := c.ClosedReason
			if reason == "" {
				reason = "定休日"
			}
			return nil, validationf("選択した受取日は休業日です（%s）", reason)
		}
	}
	if !found {
		return nil, validationf("受取日 %s は選択できません", req.Date)
	}

	ids := make([]string, 0, len(req.Cart))
	seen := map[string]bool{}
	for _, line := range req.Cart {
		if line.Quantity <= 0 {
			return nil, validationf("数量が不正です: %s", line.ProductID)
		}
		if line.Price < 0 {
			return nil, validationf("価格が不正です: %s", line.ProductID)
		}
		if seen[line.ProductID] {
			return nil, validationf("商品が重複しています: %s", line.ProductID)
		}
		seen[line.ProductID] = true
		ids = append(ids, line.ProductID)
	}

	// re-check stok terhadap produk terkini
	products, err := s.Catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	var short []StockShortage
	for _, line := range req.Cart {
		p, ok := products[line.ProductID]
		if !ok {
			return nil, validationf("商品が見つかりません: %s", line.ProductID)
		}
		if !p.Mode.Allows(mode) {
			return nil, validationf("%s はこの予約方法では購入できません", p.Name)
		}
		if availability.RemainingStock(p, mode, 0) < line.Quantity {
			short = append(short, StockShortage{
				ProductID:   p.ID,
				ProductName: p.Name,
				Required:    line.Quantity,
				Available:   p.StockFor(mode),
			})
		}
	}
	if len(short) > 0 {
		return nil, &InsufficientStockError{Details: short}
	}
	return products, nil
}

// UpdateStatus jalankan transisi admin; transisi ke cancelled memicu
// event pembatalan (notifier yang kirim emailnya).
func (s *Service) UpdateStatus(ctx context.Context, id string, to Status, reason string) (Reservation, error) {
	if !to.Valid() {
		return Reservation{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	res, items, err := s.Store.UpdateStatus(ctx, id, to)
	if err != nil {
		return Reservation{}, err
	}
	if to == StatusCancelled {
		s.publish(s.CancelledProducer, EventReservationCancelled, res.ID,
			ReservationCancelledPayload{Reservation: res, Items: items, Reason: reason})
	}
	return res, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

func (s *Service) publish(p Publisher, eventType, reservationID string, payload any) {
	if p == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: reservationID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(PartitionKey(reservationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// newReservationID: token berbasis waktu + 4 byte acak. Terurut secara
// kasar dan cukup unik untuk satu toko; BUKAN jaminan kriptografis.
func newReservationID(now time.Time) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("R%s-%s", now.Format("20060102150405"), hex.EncodeToString(b[:]))
}
