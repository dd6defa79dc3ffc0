package holidays

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/redisx"
)

var ErrNotFound = errors.New("holiday entry not found")

type Repo struct {
	DB    *pgxpool.Pool
	Redis *redis.Client // boleh nil

	// Fallback diinject dari config, bukan literal di sini.
	Fallback Calendar
}

// Get kembalikan kalender aktif. Store gagal dibaca -> fallback + log,
// jangan bikin storefront ikut tumbang gara-gara tabel libur.
func (r *Repo) Get(ctx context.Context) Calendar {
	if r.Redis != nil {
		var cached Calendar
		if ok, _ := redisx.GetJSON(ctx, r.Redis, redisx.KeyHolidayCache, &cached); ok {
			return cached.Normalize()
		}
	}

	cal, err := r.load(ctx)
	if err != nil {
		log.Printf("holidays load: %v (pakai fallback)", err)
		return r.Fallback.Normalize()
	}
	if len(cal.RecurringWeekdays) == 0 && len(cal.Dated) == 0 {
		return r.Fallback.Normalize()
	}

	if r.Redis != nil {
		redisx.SetJSON(ctx, r.Redis, redisx.KeyHolidayCache, cal, redisx.TTLHolidayCache)
	}
	return cal.Normalize()
}

func (r *Repo) load(ctx context.Context) (Calendar, error) {
	var cal Calendar

	rows, err := r.DB.Query(ctx, `SELECT day_of_week FROM regular_holidays ORDER BY day_of_week`)
	if err != nil {
		return cal, err
	}
	defer rows.Close()
	for rows.Next() {
		var wd int
		if err := rows.Scan(&wd); err != nil {
			return cal, err
		}
		cal.RecurringWeekdays = append(cal.RecurringWeekdays, wd)
	}
	if err := rows.Err(); err != nil {
		return cal, err
	}

	drows, err := r.DB.Query(ctx, `SELECT id, date, name, type FROM holidays ORDER BY date`)
	if err != nil {
		return cal, err
	}
	defer drows.Close()
	for drows.Next() {
		var e Entry
		var d time.Time
		if err := drows.Scan(&e.ID, &d, &e.Name, &e.Type); err != nil {
			return cal, err
		}
		e.Date = d.Format(DateLayout)
		cal.Dated = append(cal.Dated, e)
	}
	return cal, drows.Err()
}

// SetRecurringWeekdays ganti seluruh set hari libur rutin.
func (r *Repo) SetRecurringWeekdays(ctx context.Context, weekdays []int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM regular_holidays`); err != nil {
		return err
	}
	for _, wd := range weekdays {
		if wd < 0 || wd > 6 {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO regular_holidays(day_of_week) VALUES ($1) ON CONFLICT DO NOTHING`, wd); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *Repo) AddDated(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = "holiday_" + uuid.NewString()
	}
	if e.Type == "" {
		e.Type = TypeSpecial
	}
	d, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return Entry{}, err
	}
	if _, err := r.DB.Exec(ctx,
		`INSERT INTO holidays(id, date, name, type) VALUES ($1,$2,$3,$4)`,
		e.ID, d, e.Name, e.Type); err != nil {
		return Entry{}, err
	}
	r.invalidate(ctx)
	return e, nil
}

func (r *Repo) RemoveDated(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.invalidate(ctx)
	return nil
}

// PurgePastDated bersihkan entry bertanggal sebelum `before`.
func (r *Repo) PurgePastDated(ctx context.Context, before time.Time) (int64, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM holidays WHERE date < $1`, before)
	if err != nil {
		return 0, err
	}
	r.invalidate(ctx)
	return ct.RowsAffected(), nil
}

func (r *Repo) invalidate(ctx context.Context) {
	if r.Redis != nil {
		redisx.Invalidate(ctx, r.Redis, redisx.KeyHolidayCache)
	}
}
