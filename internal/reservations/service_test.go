package reservations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/catalog"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/holidays"
)

// --- mocks ---

type mockStore struct {
	created      []Reservation
	createdItems [][]Item
	createErr    error

	statusRes   Reservation
	statusItems []Item
	statusErr   error

	deleted []string
}

func (m *mockStore) Create(_ context.Context, res Reservation, items []Item) (Reservation, error) {
	if m.createErr != nil {
		return Reservation{}, m.createErr
	}
	res.CreatedAt = time.Now()
	m.created = append(m.created, res)
	m.createdItems = append(m.createdItems, items)
	return res, nil
}

func (m *mockStore) UpdateStatus(_ context.Context, id string, to Status) (Reservation, []Item, error) {
	if m.statusErr != nil {
		return Reservation{}, nil, m.statusErr
	}
	res := m.statusRes
	res.ID = id
	res.Status = to
	return res, m.statusItems, nil
}

func (m *mockStore) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCatalog struct {
	products     map[string]catalog.Product
	err          error
	invalidation int
}

func (m *mockCatalog) InvalidateCache(context.Context) { m.invalidation++ }

func (m *mockCatalog) GetByIDs(_ context.Context, ids []string) (map[string]catalog.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]catalog.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type mockCalendar struct{ cal holidays.Calendar }

func (m *mockCalendar) Get(context.Context) holidays.Calendar { return m.cal }

type mockPublisher struct{ published []Envelope }

func (m *mockPublisher) Publish(_, value []byte, _ ...kafkago.Header) {
	var env Envelope
	if err := json.Unmarshal(value, &env); err == nil {
		m.published = append(m.published, env)
	}
}

// --- fixture ---

// selasa; rabu adalah hari libur rutin default
var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestService(store *mockStore, products map[string]catalog.Product) (*Service, *mockPublisher, *mockPublisher) {
	created := &mockPublisher{}
	cancelled := &mockPublisher{}
	svc := &Service{
		Store:             store,
		Catalog:           &mockCatalog{products: products},
		Calendar:          &mockCalendar{cal: holidays.Default(3)},
		CreatedProducer:   created,
		CancelledProducer: cancelled,
		ServiceName:       "test",
		Now:               func() time.Time { return testNow },
	}
	return svc, created, cancelled
}

func testProducts() map[string]catalog.Product {
	return map[string]catalog.Product{
		"p1": {ID: "p1", Name: "あんバター", Price: 173, Mode: catalog.ModeBoth, TodayStock: 6, AdvanceStock: 4},
		"p2": {ID: "p2", Name: "限定カレーパン", Price: 260, Mode: catalog.ModeToday, TodayStock: 2, AdvanceStock: 9},
	}
}

func validRequest() CommitRequest {
	return CommitRequest{
		Type:  TypeSameDay,
		Date:  "2026-09-01",
		Time:  "11:00-11:30",
		Name:  "山田太郎",
		Phone: "090-0000-0000",
		Email: "taro@example.com",
		Cart:  []CartLine{{ProductID: "p1", Quantity: 2, Price: 173}},
	}
}

// --- tests ---

func TestCommit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := &mockStore{}
		svc, created, _ := newTestService(store, testProducts())

		res, items, err := svc.Commit(context.Background(), validRequest())
		require.NoError(t, err)

		assert.Equal(t, 346, res.TotalPrice)
		assert.Equal(t, StatusPending, res.Status)
		assert.Equal(t, TypeSameDay, res.Type)
		assert.NotEmpty(t, res.ID)

		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, 173, items[0].Price)
		assert.Equal(t, "あんバター", items[0].ProductName)
		assert.Equal(t, res.ID, items[0].ReservationID)

		require.Len(t, store.created, 1)
		require.Len(t, created.published, 1)
		assert.Equal(t, EventReservationCreated, created.published[0].EventType)
		assert.Equal(t, res.ID, created.published[0].CorrelationID)
	})

	t.Run("SuccessInvalidatesCatalogCache", func(t *testing.T) {
		cat := &mockCatalog{products: testProducts()}
		svc := &Service{
			Store:       &mockStore{},
			Catalog:     cat,
			Calendar:    &mockCalendar{cal: holidays.Default(3)},
			ServiceName: "test",
			Now:         func() time.Time { return testNow },
		}

		_, _, err := svc.Commit(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, 1, cat.invalidation) // stok turun -> cache produk basi
	})

	t.Run("FailedCommitLeavesCacheAlone", func(t *testing.T) {
		cat := &mockCatalog{products: testProducts()}
		svc := &Service{
			Store:       &mockStore{createErr: errors.New("connection refused")},
			Catalog:     cat,
			Calendar:    &mockCalendar{cal: holidays.Default(3)},
			ServiceName: "test",
			Now:         func() time.Time { return testNow },
		}

		_, _, err := svc.Commit(context.Background(), validRequest())
		require.Error(t, err)
		assert.Zero(t, cat.invalidation)
	})

	t.Run("TotalUsesCartSnapshotPrice", func(t *testing.T) {
		store := &mockStore{}
		svc, _, _ := newTestService(store, testProducts())

		req := validRequest()
		req.Cart = []CartLine{{ProductID: "p1", Quantity: 3, Price: 150}} // harga lama di keranjang
		res, _, err := svc.Commit(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 450, res.TotalPrice) // bukan 3×173
	})

	t.Run("EmptyCartRejected", func(t *testing.T) {
		store := &mockStore{}
		svc, created, _ := newTestService(store, testProducts())

		req := validRequest()
		req.Cart = nil
		_, _, err := svc.Commit(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Empty(t, store.created)
		assert.Empty(t, created.published)
	})

	t.Run("MissingDateRejected", func(t *testing.T) {
		svc, _, _ := newTestService(&mockStore{}, testProducts())
		req := validRequest()
		req.Date = ""
		_, _, err := svc.Commit(context.Background(), req)
		assert.True(t, IsValidation(err))
	})

	t.Run("UnknownTimeSlotRejected", func(t *testing.T) {
		svc, _, _ := newTestService(&mockStore{}, testProducts())
		req := validRequest()
		req.Time = "13:30-14:00" // jeda oven, bukan slot
		_, _, err := svc.Commit(context.Background(), req)
		assert.True(t, IsValidation(err))
	})

	t.Run("ClosedDateRejectedBeforeAnyWrite", func(t *testing.T) {
		store := &mockStore{}
		svc, created, _ := newTestService(store, testProducts())
		svc.Now = func() time.Time { return time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC) } // rabu

		req := validRequest()
		req.Date = "2026-09-02"
		_, _, err := svc.Commit(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Contains(t, err.Error(), "休業日")
		assert.Empty(t, store.created)
		assert.Empty(t, created.published)
	})

	t.Run("SameDayDateMustBeToday", func(t *testing.T) {
		svc, _, _ := newTestService(&mockStore{}, testProducts())
		req := validRequest()
		req.Date = "2026-09-05"
		_, _, err := svc.Commit(context.Background(), req)
		assert.True(t, IsValidation(err))
	})

	t.Run("AdvanceDateMustBeWithinWindow", func(t *testing.T) {
		svc, _, _ := newTestService(&mockStore{}, testProducts())

		req := validRequest()
		req.Type = TypeAdvance

		req.Date = "2026-09-01" // hari ini tidak termasuk jendela advance
		_, _, err := svc.Commit(context.Background(), req)
		assert.True(t, IsValidation(err))

		req.Date = "2026-09-16" // D+15
		_, _, err = svc.Commit(context.Background(), req)
		assert.True(t, IsValidation(err))

		req.Date = "2026-09-03" // D+2, kamis, buka
		_, _, err = svc.Commit(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("InsufficientStockRejectedWithDetails", func(t *testing.T) {
		store := &mockStore{}
		svc, created, _ := newTestService(store, testProducts())

		req := validRequest()
		req.Cart = []CartLine{{ProductID: "p1", Quantity: 7, Price: 173}} // stok today cuma 6
		_, _, err := svc.Commit(context.Background(), req)

		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		require.Len(t, stockErr.Details, 1)
		assert.Equal(t, "p1", stockErr.Details[0].ProductID)
		assert.Equal(t, 7, stockErr.Details[0].Required)
		assert.Equal(t, 6, stockErr.Details[0].Available)

		assert.Empty(t, store.created)
		assert.Empty(t, created.published)
	})

	t.Run("StockCheckedPerMode", func(t *testing.T) {
		svc, _, _ := newTestService(&mockStore{}, testProducts())

		// advance stock p1 = 4; qty 5 gagal walau today stock 6
		req := validRequest()
		req.Type = TypeAdvance
		req.Date = "2026-09-03"
		req.Cart = []CartLine{{ProductID: "p1", Quantity: 5, Price: 173}}
		_, _, err := svc.Commit(context.Background(), req)
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 4, stockErr.Details[0].Available)
	})

	t.Run("ModeEligibilityEnforced", func(t *testing.T) {
		svc, _, _ := newTestService(&mockStore{}, testProducts())

		// p2 khusus today; tidak bisa lewat jalur advance
		req := validRequest()
		req.Type = TypeAdvance
		req.Date = "2026-09-03"
		req.Cart = []CartLine{{ProductID: "p2", Quantity: 1, Price: 260}}
		_, _, err := svc.Commit(context.Background(), req)
		assert.True(t, IsValidation(err))
	})

	t.Run("UnknownProductRejected", func(t *testing.T) {
		svc, _, _ := newTestService(&mockStore{}, testProducts())
		req := validRequest()
		req.Cart = []CartLine{{ProductID: "ghost", Quantity: 1, Price: 100}}
		_, _, err := svc.Commit(context.Background(), req)
		assert.True(t, IsValidation(err))
	})

	t.Run("StoreRaceSurfacesInsufficientStock", func(t *testing.T) {
		// validasi lolos tapi transaksi menolak (commit paralel keburu ambil)
		store := &mockStore{createErr: &InsufficientStockError{
			Details: []StockShortage{{ProductID: "p1", Required: 2, Available: 1}},
		}}
		svc, created, _ := newTestService(store, testProducts())

		_, _, err := svc.Commit(context.Background(), validRequest())
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Empty(t, created.published)
	})

	t.Run("PersistenceErrorPropagates", func(t *testing.T) {
		store := &mockStore{createErr: errors.New("connection refused")}
		svc, created, _ := newTestService(store, testProducts())

		_, _, err := svc.Commit(context.Background(), validRequest())
		require.Error(t, err)
		assert.False(t, IsValidation(err))
		assert.Empty(t, created.published)
	})

	t.Run("ReservationIDsDiffer", func(t *testing.T) {
		store := &mockStore{}
		svc, _, _ := newTestService(store, testProducts())

		r1, _, err := svc.Commit(context.Background(), validRequest())
		require.NoError(t, err)
		r2, _, err := svc.Commit(context.Background(), validRequest())
		require.NoError(t, err)
		assert.NotEqual(t, r1.ID, r2.ID)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("CancelPublishesCancellation", func(t *testing.T) {
		store := &mockStore{
			statusRes:   Reservation{Type: TypeSameDay, Date: "2026-09-01", Email: "taro@example.com"},
			statusItems: []Item{{ProductID: "p1", Quantity: 2}},
		}
		svc, _, cancelled := newTestService(store, testProducts())

		res, err := svc.UpdateStatus(context.Background(), "R1", StatusCancelled, "sold out")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, res.Status)

		require.Len(t, cancelled.published, 1)
		assert.Equal(t, EventReservationCancelled, cancelled.published[0].EventType)
	})

	t.Run("ConfirmDoesNotPublish", func(t *testing.T) {
		store := &mockStore{statusRes: Reservation{}}
		svc, created, cancelled := newTestService(store, testProducts())

		_, err := svc.UpdateStatus(context.Background(), "R1", StatusConfirmed, "")
		require.NoError(t, err)
		assert.Empty(t, created.published)
		assert.Empty(t, cancelled.published)
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		svc, _, _ := newTestService(&mockStore{}, testProducts())
		_, err := svc.UpdateStatus(context.Background(), "R1", Status("shipped"), "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("TransitionErrorPropagates", func(t *testing.T) {
		store := &mockStore{statusErr: ErrInvalidTransition}
		svc, _, cancelled := newTestService(store, testProducts())
		_, err := svc.UpdateStatus(context.Background(), "R1", StatusCancelled, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Empty(t, cancelled.published)
	})
}
