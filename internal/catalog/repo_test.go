package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkAdjustStockValidation(t *testing.T) {
	r := &Repo{} // validasi gagal sebelum DB disentuh

	t.Run("DeltaMustBePlusOrMinusOne", func(t *testing.T) {
		for _, d := range []int{0, 2, -2, 10} {
			_, err := r.BulkAdjustStock(context.Background(), "", StockFieldToday, d)
			assert.Error(t, err, "delta %d", d)
		}
	})

	t.Run("FieldMustBeKnownColumn", func(t *testing.T) {
		_, err := r.BulkAdjustStock(context.Background(), "", StockField("both"), 1)
		assert.Error(t, err)
		_, err = r.BulkAdjustStock(context.Background(), "", StockField(""), -1)
		assert.Error(t, err)
	})
}

func TestBulkStockSQL(t *testing.T) {
	t.Run("ClampsAtZero", func(t *testing.T) {
		q := bulkStockSQL("today_stock", "")
		assert.Contains(t, q, "GREATEST(today_stock + $1, 0)")
		assert.NotContains(t, q, "WHERE")
	})

	t.Run("CategoryFilter", func(t *testing.T) {
		q := bulkStockSQL("advance_stock", CategorySoft)
		assert.Contains(t, q, "GREATEST(advance_stock + $1, 0)")
		assert.Contains(t, q, "category = $2")
	})

	t.Run("PlusThenMinusRoundTrips", func(t *testing.T) {
		// model ekspresi GREATEST(s + d, 0) di atas: sesudah +1 stok >= 1,
		// jadi -1 berikutnya selalu kembali ke stok awal
		greatest := func(s, d int) int { return max(s+d, 0) }
		for s := 0; s <= 5; s++ {
			require.Equal(t, s, greatest(greatest(s, 1), -1), "stok awal %d", s)
		}
		// arah sebaliknya memang tidak round-trip pada nol
		assert.Equal(t, 1, greatest(greatest(0, -1), 1))
	})
}
