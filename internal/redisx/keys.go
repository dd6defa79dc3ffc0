package redisx

import "time"

const (
	// Read replica katalog produk: cache:products -> JSON array.
	// DB tetap sumber kebenaran; key ini di-DEL setiap mutasi produk/stok.
	KeyProductCache = "cache:products"

	// Read replica kalender libur: cache:holidays -> JSON.
	KeyHolidayCache = "cache:holidays"

	// Dedup event processing di notifier: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLProductCache = 5 * time.Minute
	TTLHolidayCache = 10 * time.Minute
	TTLDedup        = 48 * time.Hour
)
