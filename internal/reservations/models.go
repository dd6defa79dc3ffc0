package reservations

import (
	"time"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/catalog"
)

// Type: label jalur pemesanan, disimpan apa adanya (bahasa tampilan toko).
type Type string

const (
	TypeSameDay Type = "当日お取り置き"
	TypeAdvance Type = "事前予約"
)

// Mode mapping label -> jalur katalog.
func (t Type) Mode() catalog.Mode {
	if t == TypeSameDay {
		return catalog.ModeToday
	}
	return catalog.ModeAdvance
}

func (t Type) Valid() bool { return t == TypeSameDay || t == TypeAdvance }

// TimeSlots: tangga slot ambil yang tetap. Ada jeda 13:30-14:00 dan
// 14:30-15:00 (jam keluar oven), jangan "dirapikan".
var TimeSlots = []string{
	"10:30-11:00",
	"11:00-11:30",
	"11:30-12:00",
	"12:00-12:30",
	"12:30-13:00",
	"13:00-13:30",
	"14:00-14:30",
	"15:00-15:30",
}

func ValidTimeSlot(s string) bool {
	for _, t := range TimeSlots {
		if t == s {
			return true
		}
	}
	return false
}

// CartLine: isi keranjang dari klien. Price = snapshot harga saat produk
// masuk keranjang; total dihitung dari sini, bukan dari harga produk
// terkini, supaya harga yang tampil = harga yang ditagih.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

type Reservation struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Time       string    `json:"time"` // slot, mis. "11:00-11:30"
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Comments   string    `json:"comments"`
	TotalPrice int       `json:"total_price"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Item dibuat atomik bersama reservasinya dan tidak pernah diubah lagi.
// Nama & harga produk di-snapshot: edit produk belakangan tidak mengubah
// catatan reservasi lama.
type Item struct {
	ReservationID string `json:"reservation_id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Price         int    `json:"price"`
	Quantity      int    `json:"quantity"`
}

// ListFilter untuk layar admin & export.
type ListFilter struct {
	DateFrom string // inklusif, YYYY-MM-DD, kosong = tanpa batas
	DateTo   string // inklusif
	Status   Status // kosong = semua
	Type     Type   // kosong = semua
}
