package reservations

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/holidays"
)

// Period filter export: semua / hari ini / besok.
type Period string

const (
	PeriodAll      Period = "all"
	PeriodToday    Period = "today"
	PeriodTomorrow Period = "tomorrow"
)

// ExportFilterFor terjemahkan period+status+type jadi ListFilter.
func ExportFilterFor(period Period, status Status, typ Type, now time.Time) ListFilter {
	f := ListFilter{Status: status, Type: typ}
	switch period {
	case PeriodToday:
		d := now.Format(holidays.DateLayout)
		f.DateFrom, f.DateTo = d, d
	case PeriodTomorrow:
		d := now.AddDate(0, 0, 1).Format(holidays.DateLayout)
		f.DateFrom, f.DateTo = d, d
	}
	return f
}

var csvHeaders = []string{
	"予約ID", "予約タイプ", "受取日", "受取時間",
	"お客様名", "電話", "メール",
	"商品名", "数量", "単価", "小計",
	"ステータス", "作成日",
}

// WriteCSV tulis satu baris per item yang dibeli; reservasi tanpa item
// tetap keluar satu baris dengan kolom item kosong. encoding/csv sudah
// mengurus quoting untuk koma/kutip/newline; BOM di depan supaya header
// Jepang kebaca di Excel.
func WriteCSV(w io.Writer, rs []Reservation, itemsByID map[string][]Item) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return err
	}

	for _, res := range rs {
		items := itemsByID[res.ID]
		if len(items) == 0 {
			items = []Item{{}}
		}
		for _, it := range items {
			row := []string{
				res.ID,
				string(res.Type),
				res.Date,
				res.Time,
				res.Name,
				res.Phone,
				res.Email,
				it.ProductName,
				fmt.Sprintf("%d", it.Quantity),
				fmt.Sprintf("%d", it.Price),
				fmt.Sprintf("%d", it.Quantity*it.Price),
				string(res.Status),
				res.CreatedAt.Format(time.RFC3339),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
