package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/catalog"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/holidays"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/reservations"
)

// AdminHandler: back-office toko. Semua route di bawah /admin lewat
// middleware AdminAuth.
type AdminHandler struct {
	Products     *catalog.Repo
	Holidays     *holidays.Repo
	Reservations *reservations.Repo
	Service      *reservations.Service
	AdminToken   string
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(AdminAuth(h.AdminToken))

		ar.Get("/reservations", h.listReservations)
		ar.Get("/sales-report", h.salesReport)
		ar.Get("/customers", h.listCustomers)
		ar.Get("/reservations/export", h.exportReservations)
		ar.Patch("/reservations/{id}/status", h.updateReservationStatus)
		ar.Delete("/reservations/{id}", h.deleteReservation)

		ar.Get("/products", h.listProducts)
		ar.Post("/products", h.createProduct)
		ar.Patch("/products/{id}", h.patchProduct)
		ar.Delete("/products/{id}", h.deleteProduct)
		ar.Post("/products/bulk-stock", h.bulkStock)

		ar.Get("/holidays", h.getHolidays)
		ar.Put("/holidays/recurring", h.setRecurring)
		ar.Post("/holidays", h.addHoliday)
		ar.Delete("/holidays/{id}", h.removeHoliday)
		ar.Post("/holidays/purge", h.purgeHolidays)
	})
}

func (h *AdminHandler) listReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := reservations.ListFilter{
		DateFrom: q.Get("from"),
		DateTo:   q.Get("to"),
		Status:   reservations.Status(q.Get("status")),
		Type:     reservations.Type(q.Get("type")),
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rs, err := h.Reservations.List(ctx, f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (h *AdminHandler) salesReport(w http.ResponseWriter, r *http.Request) {
	period := reservations.ReportPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = reservations.ReportAll
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rep, err := h.Reservations.SalesReport(ctx, period, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *AdminHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cs, err := h.Reservations.Customers(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *AdminHandler) exportReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := reservations.Period(q.Get("period"))
	if period == "" {
		period = reservations.PeriodAll
	}
	f := reservations.ExportFilterFor(period,
		reservations.Status(q.Get("status")),
		reservations.Type(q.Get("type")),
		time.Now())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rs, items, err := h.Reservations.ListWithItems(ctx, f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="reservations.csv"`)
	if err := reservations.WriteCSV(w, rs, items); err != nil {
		log.Printf("export csv: %v", err) // header sudah terkirim, tidak bisa ganti status
	}
}

type updateStatusReq struct {
	Status reservations.Status `json:"status"`
	Reason string              `json:"reason"`
}

func (h *AdminHandler) updateReservationStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Service.UpdateStatus(ctx, id, req.Status, req.Reason)
	switch {
	case errors.Is(err, reservations.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, reservations.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *AdminHandler) deleteReservation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Service.Delete(ctx, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, reservations.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AdminHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Products.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

type createProductReq struct {
	Name         string       `json:"name"`
	Price        int          `json:"price"`
	Category     string       `json:"category"`
	Mode         catalog.Mode `json:"mode"`
	TodayStock   int          `json:"today_stock"`
	AdvanceStock int          `json:"advance_stock"`
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Price < 0 {
		writeError(w, http.StatusBadRequest, "name required, price must be >= 0")
		return
	}
	if req.Mode == "" {
		req.Mode = catalog.ModeBoth
	}
	if !req.Mode.Valid() {
		writeError(w, http.StatusBadRequest, "invalid mode")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.Create(ctx, catalog.Product{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Price:        req.Price,
		Category:     req.Category,
		Mode:         req.Mode,
		TodayStock:   max(req.TodayStock, 0),
		AdvanceStock: max(req.AdvanceStock, 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) patchProduct(w http.ResponseWriter, r *http.Request) {
	var f catalog.PatchFields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if f.Price != nil && *f.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must be >= 0")
		return
	}
	if f.Mode != nil && !f.Mode.Valid() {
		writeError(w, http.StatusBadRequest, "invalid mode")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.Patch(ctx, chi.URLParam(r, "id"), f)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Products.Delete(ctx, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

type bulkStockReq struct {
	Category string             `json:"category"` // "", "all", atau label kategori
	Field    catalog.StockField `json:"field"`
	Delta    int                `json:"delta"` // +1 | -1
}

func (h *AdminHandler) bulkStock(w http.ResponseWriter, r *http.Request) {
	var req bulkStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Category == "all" {
		req.Category = ""
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	n, err := h.Products.BulkAdjustStock(ctx, req.Category, req.Field, req.Delta)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": n})
}

func (h *AdminHandler) getHolidays(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	writeJSON(w, http.StatusOK, h.Holidays.Get(ctx))
}

type setRecurringReq struct {
	Weekdays []int `json:"weekdays"`
}

func (h *AdminHandler) setRecurring(w http.ResponseWriter, r *http.Request) {
	var req setRecurringReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Holidays.SetRecurringWeekdays(ctx, req.Weekdays); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.Holidays.Get(ctx))
}

func (h *AdminHandler) addHoliday(w http.ResponseWriter, r *http.Request) {
	var e holidays.Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if e.Date == "" || e.Name == "" {
		writeError(w, http.StatusBadRequest, "date and name required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	created, err := h.Holidays.AddDated(ctx, e)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) removeHoliday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Holidays.RemoveDated(ctx, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, holidays.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// purgeHolidays buang entry bertanggal yang sudah lewat.
func (h *AdminHandler) purgeHolidays(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	n, err := h.Holidays.PurgePastDated(ctx, holidays.StartOfDay(time.Now()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"purged": n})
}
