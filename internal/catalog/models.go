package catalog

import "time"

// Mode menentukan jalur pemesanan yang boleh dipakai sebuah produk.
type Mode string

const (
	ModeToday   Mode = "today"   // お取り置き hari ini saja
	ModeAdvance Mode = "advance" // pre-order H+1..H+14
	ModeBoth    Mode = "both"
)

func (m Mode) Valid() bool {
	return m == ModeToday || m == ModeAdvance || m == ModeBoth
}

// Allows: produk "both" lolos untuk kedua jalur.
func (m Mode) Allows(req Mode) bool {
	return m == ModeBoth || m == req
}

// Kategori produk mengikuti label di toko.
const (
	CategorySoft = "ソフト系"
	CategoryHard = "ハード系"
)

type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"` // yen, bilangan bulat
	Category string `json:"category"`
	Mode     Mode   `json:"mode"`

	// Dua counter stok independen, dipilih berdasarkan jalur pemesanan.
	// Tidak pernah negatif; penyesuaian admin di-clamp ke nol.
	TodayStock   int `json:"today_stock"`
	AdvanceStock int `json:"advance_stock"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockFor pilih counter sesuai jalur. Mode "both" tidak pernah jadi
// argumen di sini; pemanggil selalu mengirim jalur aktif.
func (p Product) StockFor(mode Mode) int {
	if mode == ModeToday {
		return p.TodayStock
	}
	return p.AdvanceStock
}

// PatchFields: partial update dari admin. Pointer nil = tidak diubah.
type PatchFields struct {
	Name         *string `json:"name,omitempty"`
	Price        *int    `json:"price,omitempty"`
	Category     *string `json:"category,omitempty"`
	Mode         *Mode   `json:"mode,omitempty"`
	TodayStock   *int    `json:"today_stock,omitempty"`
	AdvanceStock *int    `json:"advance_stock,omitempty"`
}

// StockField memilih kolom stok untuk penyesuaian massal.
type StockField string

const (
	StockFieldToday   StockField = "today"
	StockFieldAdvance StockField = "advance"
)

func (f StockField) Valid() bool {
	return f == StockFieldToday || f == StockFieldAdvance
}

func (f StockField) Column() string {
	if f == StockFieldToday {
		return "today_stock"
	}
	return "advance_stock"
}
