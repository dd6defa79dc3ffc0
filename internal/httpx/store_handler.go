package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/availability"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/catalog"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/holidays"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/reservations"
)

// StoreHandler: endpoint storefront (katalog, tanggal kandidat, commit).
type StoreHandler struct {
	Products *catalog.Repo
	Holidays *holidays.Repo
	Service  *reservations.Service
}

func (h *StoreHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/availability/dates", h.candidateDates)
	r.Get("/holidays", h.getCalendar)
	r.Post("/reservations", h.createReservation)
}

func parseMode(r *http.Request) (catalog.Mode, bool) {
	m := catalog.Mode(r.URL.Query().Get("mode"))
	if m == "" {
		m = catalog.ModeToday
	}
	return m, m == catalog.ModeToday || m == catalog.ModeAdvance
}

type productView struct {
	catalog.Product
	Remaining   int  `json:"remaining"`
	Purchasable bool `json:"purchasable"`
}

// listProducts: katalog + sisa stok untuk jalur yang diminta.
func (h *StoreHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be today or advance")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Products.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, productView{
			Product:     p,
			Remaining:   availability.RemainingStock(p, mode, 0),
			Purchasable: availability.Purchasable(p, mode, 0),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StoreHandler) candidateDates(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be today or advance")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cal := h.Holidays.Get(ctx)
	writeJSON(w, http.StatusOK, availability.CandidateDates(mode, cal, time.Now()))
}

func (h *StoreHandler) getCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	writeJSON(w, http.StatusOK, h.Holidays.Get(ctx))
}

type createReservationResp struct {
	Reservation reservations.Reservation `json:"reservation"`
	Items       []reservations.Item      `json:"items"`
}

func (h *StoreHandler) createReservation(w http.ResponseWriter, r *http.Request) {
	var req reservations.CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, items, err := h.Service.Commit(ctx, req)
	if err != nil {
		var stockErr *reservations.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   stockErr.Error(),
				"details": stockErr.Details,
			})
		case reservations.IsValidation(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			// persistence failure: generik, jangan bocorkan internal
			writeError(w, http.StatusInternalServerError, "reservation could not be saved")
		}
		return
	}
	writeJSON(w, http.StatusCreated, createReservationResp{Reservation: res, Items: items})
}
