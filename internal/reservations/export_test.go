package reservations

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixture() (Reservation, []Item) {
	res := Reservation{
		ID:         "R20260901100000-ab12",
		Type:       TypeSameDay,
		Date:       "2026-09-01",
		Time:       "11:00-11:30",
		Name:       "山田太郎",
		Phone:      "090-0000-0000",
		Email:      "taro@example.com",
		TotalPrice: 606,
		Status:     StatusPending,
		CreatedAt:  time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC),
	}
	items := []Item{
		{ReservationID: res.ID, ProductID: "p1", ProductName: "あんバター", Price: 173, Quantity: 2},
		{ReservationID: res.ID, ProductID: "p2", ProductName: "限定カレーパン", Price: 260, Quantity: 1},
	}
	return res, items
}

func parseCSV(t *testing.T, raw []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "harus diawali BOM")
	rows, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV(t *testing.T) {
	t.Run("OneRowPerItemSharingReservationFields", func(t *testing.T) {
		res, items := exportFixture()
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, []Reservation{res}, map[string][]Item{res.ID: items}))

		rows := parseCSV(t, buf.Bytes())
		require.Len(t, rows, 3) // header + 2 item

		assert.Equal(t, "予約ID", rows[0][0])

		for _, row := range rows[1:] {
			assert.Equal(t, res.ID, row[0])
			assert.Equal(t, string(TypeSameDay), row[1])
			assert.Equal(t, "2026-09-01", row[2])
			assert.Equal(t, "山田太郎", row[4])
		}
		// kolom item yang membedakan
		assert.Equal(t, "あんバター", rows[1][7])
		assert.Equal(t, "2", rows[1][8])
		assert.Equal(t, "173", rows[1][9])
		assert.Equal(t, "346", rows[1][10])
		assert.Equal(t, "限定カレーパン", rows[2][7])
		assert.Equal(t, "260", rows[2][10])
	})

	t.Run("NoItemsStillOneRow", func(t *testing.T) {
		res, _ := exportFixture()
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, []Reservation{res}, map[string][]Item{}))

		rows := parseCSV(t, buf.Bytes())
		require.Len(t, rows, 2)
		assert.Equal(t, res.ID, rows[1][0])
		assert.Equal(t, "0", rows[1][8])
	})

	t.Run("SeparatorAndQuoteCharactersEscaped", func(t *testing.T) {
		res, items := exportFixture()
		res.Name = `山田, "太郎"`
		items = items[:1]
		items[0].ProductName = "パン, くるみ入り"

		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, []Reservation{res}, map[string][]Item{res.ID: items}))

		// encoding/csv harus mengutip sel berkoma/berkutip
		assert.Contains(t, buf.String(), `"山田, ""太郎"""`)

		rows := parseCSV(t, buf.Bytes())
		assert.Equal(t, `山田, "太郎"`, rows[1][4])
		assert.Equal(t, "パン, くるみ入り", rows[1][7])
	})
}

func TestExportFilterFor(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	t.Run("All", func(t *testing.T) {
		f := ExportFilterFor(PeriodAll, "", "", now)
		assert.Empty(t, f.DateFrom)
		assert.Empty(t, f.DateTo)
	})

	t.Run("Today", func(t *testing.T) {
		f := ExportFilterFor(PeriodToday, StatusPending, TypeSameDay, now)
		assert.Equal(t, "2026-09-01", f.DateFrom)
		assert.Equal(t, "2026-09-01", f.DateTo)
		assert.Equal(t, StatusPending, f.Status)
		assert.Equal(t, TypeSameDay, f.Type)
	})

	t.Run("Tomorrow", func(t *testing.T) {
		f := ExportFilterFor(PeriodTomorrow, "", "", now)
		assert.Equal(t, "2026-09-02", f.DateFrom)
		assert.Equal(t, "2026-09-02", f.DateTo)
	})
}
