package reservations

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError: prasyarat commit gagal, ditolak SEBELUM ada side effect.
// Message layak ditampilkan ke pelanggan supaya UI bisa re-prompt tanpa
// membuang pilihan lainnya.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation: true untuk semua penolakan prasyarat.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	ErrNotFound          = errors.New("reservation not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// InsufficientStockError bawa detail per produk biar pesannya konkret
// ("stok X kurang"), bukan cuma "gagal".
type InsufficientStockError struct {
	Details []StockShortage
}

type StockShortage struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Required    int    `json:"required"`
	Available   int    `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	names := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		n := d.ProductName
		if n == "" {
			n = d.ProductID
		}
		names = append(names, fmt.Sprintf("%s (残り%d)", n, d.Available))
	}
	return "在庫が不足しています: " + strings.Join(names, ", ")
}
