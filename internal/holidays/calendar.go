package holidays

import "time"

// EntryType membedakan libur pengganti (振替) dan libur khusus.
type EntryType string

const (
	TypeSubstitute EntryType = "substitute"
	TypeSpecial    EntryType = "special"
)

// Entry: satu tanggal libur spesifik, terlepas dari hari minggunya.
type Entry struct {
	ID   string    `json:"id"`
	Date string    `json:"date"` // YYYY-MM-DD
	Name string    `json:"name"`
	Type EntryType `json:"type"`
}

// Calendar: set hari-minggu libur rutin + daftar tanggal libur spesifik.
// Value type: pemanggil memegang salinannya sendiri, aman dibaca paralel.
type Calendar struct {
	RecurringWeekdays []int   `json:"regular_holidays"` // 0=Minggu .. 6=Sabtu
	Dated             []Entry `json:"holidays"`
}

// Label hari untuk tampilan, urut time.Weekday.
var WeekdayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// DateLayout format tanggal di seluruh sistem (DB date & JSON).
const DateLayout = "2006-01-02"

const regularClosingLabel = "定休日"

// StartOfDay: tengah malam di zona waktu t sendiri. Truncate(24h) memotong
// ke tengah malam UTC, salah untuk batas "sudah lewat" di jam toko.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Default kalender fallback: dipakai saat data libur tersimpan tidak ada
// atau tidak terbaca. Sisanya sistem bergantung persis pada fallback ini.
func Default(closedWeekday int) Calendar {
	if closedWeekday < 0 || closedWeekday > 6 {
		closedWeekday = 3
	}
	return Calendar{RecurringWeekdays: []int{closedWeekday}}
}

// Normalize buang entry tanggal yang cacat (tanpa tanggal valid atau nama).
// Data lama dari klien bisa bolong; di-skip diam-diam, bukan error.
func (c Calendar) Normalize() Calendar {
	out := Calendar{RecurringWeekdays: make([]int, 0, len(c.RecurringWeekdays))}
	for _, wd := range c.RecurringWeekdays {
		if wd >= 0 && wd <= 6 {
			out.RecurringWeekdays = append(out.RecurringWeekdays, wd)
		}
	}
	for _, e := range c.Dated {
		if e.Name == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, e.Date); err != nil {
			continue
		}
		out.Dated = append(out.Dated, e)
	}
	return out
}

// Closed: sebuah tanggal tutup iff hari minggunya masuk set rutin ATAU ada
// entry bertanggal untuk tanggal itu. Reason = nama entry kalau ada, kalau
// tidak label 定休日.
func (c Calendar) Closed(d time.Time) (bool, string) {
	ds := d.Format(DateLayout)
	for _, e := range c.Dated {
		if e.Date == ds {
			return true, e.Name
		}
	}
	wd := int(d.Weekday())
	for _, r := range c.RecurringWeekdays {
		if r == wd {
			return true, regularClosingLabel
		}
	}
	return false, ""
}
