// Package availability menghitung tanggal ambil yang bisa dipilih dan sisa
// stok yang masih bisa dibeli. Murni: tanpa IO, gampang diuji.
package availability

import (
	"time"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/catalog"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/holidays"
)

// AdvanceDays: jendela pre-order, besok s/d 14 hari ke depan.
const AdvanceDays = 14

type CandidateDate struct {
	Date         string `json:"date"` // YYYY-MM-DD
	WeekdayLabel string `json:"weekday"`
	Closed       bool   `json:"closed"`
	ClosedReason string `json:"closed_reason,omitempty"`
}

// CandidateDates hasilkan kandidat tanggal ambil untuk satu jalur.
// Mode today: tepat 1 entry (hari ini). Mode advance: tepat 14 entry,
// D+1..D+14 urut naik. Tanggal tutup TIDAK dibuang, cuma ditandai —
// pemanggil yang memutuskan cara menampilkannya.
func CandidateDates(mode catalog.Mode, cal holidays.Calendar, today time.Time) []CandidateDate {
	if mode == catalog.ModeToday {
		return []CandidateDate{annotate(today, cal)}
	}
	out := make([]CandidateDate, 0, AdvanceDays)
	for i := 1; i <= AdvanceDays; i++ {
		out = append(out, annotate(today.AddDate(0, 0, i), cal))
	}
	return out
}

func annotate(d time.Time, cal holidays.Calendar) CandidateDate {
	closed, reason := cal.Closed(d)
	return CandidateDate{
		Date:         d.Format(holidays.DateLayout),
		WeekdayLabel: holidays.WeekdayLabels[d.Weekday()],
		Closed:       closed,
		ClosedReason: reason,
	}
}

// RemainingStock: proyeksi sisa yang masih bisa ditambah ke keranjang.
// Tidak pernah disimpan, murni view-time.
func RemainingStock(p catalog.Product, mode catalog.Mode, inCart int) int {
	rem := p.StockFor(mode) - inCart
	if rem < 0 {
		return 0
	}
	return rem
}

// Purchasable: produk bisa dibeli di jalur `mode` kalau eligibility-nya
// cocok dan sisa stok masih > 0.
func Purchasable(p catalog.Product, mode catalog.Mode, inCart int) bool {
	return p.Mode.Allows(mode) && RemainingStock(p, mode, inCart) > 0
}
