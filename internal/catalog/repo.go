package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/redisx"
)

var ErrNotFound = errors.New("product not found")

type Repo struct {
	DB    *pgxpool.Pool
	Redis *redis.Client // read replica, boleh nil (mis. di notifier)
}

const productCols = `id, name, price, category, mode, today_stock, advance_stock, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Mode,
		&p.TodayStock, &p.AdvanceStock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List baca dari cache dulu; miss -> DB lalu isi cache.
// DB tetap sumber kebenaran, cache di-invalidate di semua mutasi.
func (r *Repo) List(ctx context.Context) ([]Product, error) {
	if r.Redis != nil {
		var cached []Product
		if ok, _ := redisx.GetJSON(ctx, r.Redis, redisx.KeyProductCache, &cached); ok {
			return cached, nil
		}
	}

	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if r.Redis != nil {
		redisx.SetJSON(ctx, r.Redis, redisx.KeyProductCache, out, redisx.TTLProductCache)
	}
	return out, nil
}

// GetByIDs ambil produk per id langsung dari DB (dipakai validasi commit,
// tidak boleh lewat cache).
func (r *Repo) GetByIDs(ctx context.Context, ids []string) (map[string]Product, error) {
	if len(ids) == 0 {
		return map[string]Product{}, nil
	}
	params := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+productCols+` FROM products WHERE id IN (`+strings.Join(params, ",")+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, p Product) (Product, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, price, category, mode, today_stock, advance_stock)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+productCols,
		p.ID, p.Name, p.Price, p.Category, p.Mode, p.TodayStock, p.AdvanceStock)
	created, err := scanProduct(row)
	if err != nil {
		return Product{}, err
	}
	r.InvalidateCache(ctx)
	return created, nil
}

// Patch update parsial; hanya field non-nil yang ditulis.
func (r *Repo) Patch(ctx context.Context, id string, f PatchFields) (Product, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.Name != nil {
		add("name", *f.Name)
	}
	if f.Price != nil {
		add("price", *f.Price)
	}
	if f.Category != nil {
		add("category", *f.Category)
	}
	if f.Mode != nil {
		add("mode", *f.Mode)
	}
	if f.TodayStock != nil {
		add("today_stock", max(*f.TodayStock, 0))
	}
	if f.AdvanceStock != nil {
		add("advance_stock", max(*f.AdvanceStock, 0))
	}

	row := r.DB.QueryRow(ctx,
		`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = $1 RETURNING `+productCols, args...)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	r.InvalidateCache(ctx)
	return p, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.InvalidateCache(ctx)
	return nil
}

// BulkAdjustStock geser satu kolom stok ±1 untuk satu kategori (atau semua).
// Satu UPDATE dengan clamp GREATEST supaya -1 tidak bikin negatif.
func (r *Repo) BulkAdjustStock(ctx context.Context, category string, field StockField, delta int) (int64, error) {
	if delta != 1 && delta != -1 {
		return 0, fmt.Errorf("invalid delta %d", delta)
	}
	if !field.Valid() {
		return 0, fmt.Errorf("invalid stock field %q", field)
	}
	args := []any{delta}
	if category != "" {
		args = append(args, category)
	}
	ct, err := r.DB.Exec(ctx, bulkStockSQL(field.Column(), category), args...)
	if err != nil {
		return 0, err
	}
	r.InvalidateCache(ctx)
	return ct.RowsAffected(), nil
}

// bulkStockSQL: UPDATE dengan clamp GREATEST supaya delta -1 berhenti di
// nol, dan +1 lalu -1 selalu kembali ke stok awal.
func bulkStockSQL(col, category string) string {
	q := fmt.Sprintf(`UPDATE products SET %s = GREATEST(%s + $1, 0), updated_at = now()`, col, col)
	if category != "" {
		q += ` WHERE category = $2`
	}
	return q
}

// InvalidateCache buang cache katalog. Dipanggil semua mutasi di sini,
// plus sisi reservasi setelah commit mengurangi stok.
func (r *Repo) InvalidateCache(ctx context.Context) {
	if r.Redis != nil {
		redisx.Invalidate(ctx, r.Redis, redisx.KeyProductCache)
	}
}
