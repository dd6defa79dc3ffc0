package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/catalog"
	"github.com/ariefcatur/go-bakery-reserve.git/internal/holidays"
)

var testCal = holidays.Calendar{
	RecurringWeekdays: []int{3}, // rabu
	Dated: []holidays.Entry{
		{ID: "h1", Date: "2026-09-04", Name: "臨時休業", Type: holidays.TypeSpecial},
	},
}

func day(s string) time.Time {
	d, err := time.Parse(holidays.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCandidateDatesToday(t *testing.T) {
	t.Run("ExactlyOneEntryDatedToday", func(t *testing.T) {
		got := CandidateDates(catalog.ModeToday, testCal, day("2026-09-01"))
		require.Len(t, got, 1)
		assert.Equal(t, "2026-09-01", got[0].Date)
		assert.Equal(t, "火", got[0].WeekdayLabel)
		assert.False(t, got[0].Closed)
	})

	t.Run("ClosedTodayStillReturned", func(t *testing.T) {
		got := CandidateDates(catalog.ModeToday, testCal, day("2026-09-02")) // rabu
		require.Len(t, got, 1)
		assert.True(t, got[0].Closed)
		assert.Equal(t, "定休日", got[0].ClosedReason)
	})
}

func TestCandidateDatesAdvance(t *testing.T) {
	today := day("2026-09-01")
	got := CandidateDates(catalog.ModeAdvance, testCal, today)

	t.Run("FourteenEntriesAscendingFromTomorrow", func(t *testing.T) {
		require.Len(t, got, AdvanceDays)
		for i, c := range got {
			assert.Equal(t, today.AddDate(0, 0, i+1).Format(holidays.DateLayout), c.Date)
		}
	})

	t.Run("ClosedDatesIncludedAndFlagged", func(t *testing.T) {
		byDate := map[string]CandidateDate{}
		for _, c := range got {
			byDate[c.Date] = c
		}
		assert.True(t, byDate["2026-09-02"].Closed) // rabu
		assert.Equal(t, "定休日", byDate["2026-09-02"].ClosedReason)
		assert.True(t, byDate["2026-09-04"].Closed) // entry bertanggal
		assert.Equal(t, "臨時休業", byDate["2026-09-04"].ClosedReason)
		assert.False(t, byDate["2026-09-03"].Closed)
	})

	t.Run("AllClosedStillFourteen", func(t *testing.T) {
		everyday := holidays.Calendar{RecurringWeekdays: []int{0, 1, 2, 3, 4, 5, 6}}
		all := CandidateDates(catalog.ModeAdvance, everyday, today)
		require.Len(t, all, AdvanceDays)
		for _, c := range all {
			assert.True(t, c.Closed)
		}
	})
}

func TestRemainingStock(t *testing.T) {
	p := catalog.Product{ID: "p1", Mode: catalog.ModeBoth, TodayStock: 5, AdvanceStock: 2}

	t.Run("SelectsCounterByMode", func(t *testing.T) {
		assert.Equal(t, 5, RemainingStock(p, catalog.ModeToday, 0))
		assert.Equal(t, 2, RemainingStock(p, catalog.ModeAdvance, 0))
	})

	t.Run("CartQuantitySubtracted", func(t *testing.T) {
		assert.Equal(t, 3, RemainingStock(p, catalog.ModeToday, 2))
	})

	t.Run("NeverNegative", func(t *testing.T) {
		assert.Equal(t, 0, RemainingStock(p, catalog.ModeAdvance, 7))
	})

	t.Run("NeverExceedsBaseStock", func(t *testing.T) {
		for inCart := 0; inCart <= 10; inCart++ {
			rem := RemainingStock(p, catalog.ModeToday, inCart)
			assert.GreaterOrEqual(t, rem, 0)
			assert.LessOrEqual(t, rem, p.TodayStock)
		}
	})
}

func TestPurchasable(t *testing.T) {
	t.Run("ModeMustMatchEligibility", func(t *testing.T) {
		todayOnly := catalog.Product{Mode: catalog.ModeToday, TodayStock: 3, AdvanceStock: 3}
		assert.True(t, Purchasable(todayOnly, catalog.ModeToday, 0))
		assert.False(t, Purchasable(todayOnly, catalog.ModeAdvance, 0))
	})

	t.Run("BothAllowsEitherMode", func(t *testing.T) {
		both := catalog.Product{Mode: catalog.ModeBoth, TodayStock: 1, AdvanceStock: 1}
		assert.True(t, Purchasable(both, catalog.ModeToday, 0))
		assert.True(t, Purchasable(both, catalog.ModeAdvance, 0))
	})

	t.Run("SoldOutNotPurchasable", func(t *testing.T) {
		p := catalog.Product{Mode: catalog.ModeBoth, TodayStock: 2}
		assert.False(t, Purchasable(p, catalog.ModeToday, 2))
		assert.False(t, Purchasable(p, catalog.ModeAdvance, 0))
	})
}
