package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/holidays"
)

type Repo struct{ DB *pgxpool.Pool }

// Create tulis reservasi + item + pengurangan stok sebagai SATU transaksi.
// Pengurangan dijaga `stok >= qty`; satu baris saja kurang -> seluruh unit
// di-rollback dan kekurangannya dilaporkan per produk. Tidak ada commit
// parsial yang kelihatan pembaca.
func (r *Repo) Create(ctx context.Context, res Reservation, items []Item) (Reservation, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Reservation{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO reservations(id, type, date, time, name, phone, email, comments, total_price, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		res.ID, res.Type, res.Date, res.Time, res.Name, res.Phone, res.Email,
		res.Comments, res.TotalPrice, res.Status)
	if err := row.Scan(&res.CreatedAt); err != nil {
		return Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}

	col := "advance_stock"
	if res.Type == TypeSameDay {
		col = "today_stock"
	}

	var short []StockShortage
	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO reservation_items(reservation_id, product_id, product_name, price, quantity)
			VALUES ($1,$2,$3,$4,$5)`,
			res.ID, it.ProductID, it.ProductName, it.Price, it.Quantity); err != nil {
			return Reservation{}, fmt.Errorf("insert item: %w", err)
		}

		// conditional decrement: satu UPDATE atomik per produk, bukan
		// read-then-write di caller
		ct, err := tx.Exec(ctx, fmt.Sprintf(`
			UPDATE products SET %s = %s - $2, updated_at = now()
			WHERE id = $1 AND %s >= $2`, col, col, col),
			it.ProductID, it.Quantity)
		if err != nil {
			return Reservation{}, fmt.Errorf("decrement stock: %w", err)
		}
		if ct.RowsAffected() != 1 {
			var avail int
			if err := tx.QueryRow(ctx,
				fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, col),
				it.ProductID).Scan(&avail); err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return Reservation{}, err
			}
			short = append(short, StockShortage{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Required:    it.Quantity,
				Available:   avail,
			})
		}
	}

	if len(short) > 0 {
		return Reservation{}, &InsufficientStockError{Details: short} // rollback via defer
	}
	if err := tx.Commit(ctx); err != nil {
		return Reservation{}, err
	}
	return res, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Reservation, []Item, error) {
	var res Reservation
	var d time.Time
	err := r.DB.QueryRow(ctx, `
		SELECT id, type, date, time, name, phone, email, comments, total_price, status, created_at
		FROM reservations WHERE id = $1`, id).
		Scan(&res.ID, &res.Type, &d, &res.Time, &res.Name, &res.Phone, &res.Email,
			&res.Comments, &res.TotalPrice, &res.Status, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, nil, ErrNotFound
	}
	if err != nil {
		return Reservation{}, nil, err
	}
	res.Date = d.Format(holidays.DateLayout)

	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return Reservation{}, nil, err
	}
	return res, items, nil
}

func (r *Repo) itemsFor(ctx context.Context, id string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT reservation_id, product_id, product_name, price, quantity
		FROM reservation_items WHERE reservation_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ReservationID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List filter opsional per kolom; urut tanggal ambil lalu waktu dibuat.
func (r *Repo) List(ctx context.Context, f ListFilter) ([]Reservation, error) {
	q := `SELECT id, type, date, time, name, phone, email, comments, total_price, status, created_at
	      FROM reservations WHERE 1=1`
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		q += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.DateFrom != "" {
		add("date >= $%d", f.DateFrom)
	}
	if f.DateTo != "" {
		add("date <= $%d", f.DateTo)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	q += ` ORDER BY date, created_at`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var res Reservation
		var d time.Time
		if err := rows.Scan(&res.ID, &res.Type, &d, &res.Time, &res.Name, &res.Phone,
			&res.Email, &res.Comments, &res.TotalPrice, &res.Status, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.Date = d.Format(holidays.DateLayout)
		out = append(out, res)
	}
	return out, rows.Err()
}

// ListWithItems untuk export: reservasi + item miliknya.
func (r *Repo) ListWithItems(ctx context.Context, f ListFilter) ([]Reservation, map[string][]Item, error) {
	rs, err := r.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	itemsByID := make(map[string][]Item, len(rs))
	for _, res := range rs {
		items, err := r.itemsFor(ctx, res.ID)
		if err != nil {
			return nil, nil, err
		}
		itemsByID[res.ID] = items
	}
	return rs, itemsByID, nil
}

// UpdateStatus validasi transisi di dalam transaksi (baca status lama
// FOR UPDATE) lalu tulis status baru. Stok TIDAK dikembalikan saat cancel.
func (r *Repo) UpdateStatus(ctx context.Context, id string, to Status) (Reservation, []Item, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Reservation{}, nil, err
	}
	defer tx.Rollback(ctx)

	var from Status
	err = tx.QueryRow(ctx, `SELECT status FROM reservations WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, nil, ErrNotFound
	}
	if err != nil {
		return Reservation{}, nil, err
	}
	if !CanTransition(from, to) {
		return Reservation{}, nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if _, err := tx.Exec(ctx, `UPDATE reservations SET status = $2 WHERE id = $1`, id, to); err != nil {
		return Reservation{}, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Reservation{}, nil, err
	}
	return r.Get(ctx, id)
}

// Delete hard delete, tanpa recovery; item ikut lewat ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
