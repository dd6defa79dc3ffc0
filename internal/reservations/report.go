package reservations

import (
	"context"
	"time"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/holidays"
)

// ReportPeriod untuk laporan penjualan admin.
type ReportPeriod string

const (
	ReportAll   ReportPeriod = "all"
	ReportToday ReportPeriod = "today"
	ReportWeek  ReportPeriod = "week"  // 7 hari terakhir
	ReportMonth ReportPeriod = "month" // 1 bulan terakhir
)

// SalesReport: agregat untuk layar laporan. Pembatalan tidak dihitung
// sebagai omzet.
type SalesReport struct {
	TotalRevenue     int         `json:"total_revenue"`
	ConfirmedRevenue int         `json:"confirmed_revenue"`
	TotalOrders      int         `json:"total_orders"`
	ConfirmedOrders  int         `json:"confirmed_orders"`
	PendingOrders    int         `json:"pending_orders"`
	AverageOrder     int         `json:"average_order"`
	Daily            []DailySale `json:"daily"`
}

type DailySale struct {
	Date      string `json:"date"`
	Revenue   int    `json:"revenue"`
	Orders    int    `json:"orders"`
	Confirmed int    `json:"confirmed"`
}

// Customer: agregat per pelanggan (kunci: email), urut belanja terbesar.
type Customer struct {
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	TotalOrders int       `json:"total_orders"`
	TotalSpent  int       `json:"total_spent"`
	LastOrderAt time.Time `json:"last_order_at"`
}

func reportFilter(period ReportPeriod, now time.Time) ListFilter {
	var f ListFilter
	switch period {
	case ReportToday:
		f.DateFrom = now.Format(holidays.DateLayout)
		f.DateTo = f.DateFrom
	case ReportWeek:
		f.DateFrom = now.AddDate(0, 0, -7).Format(holidays.DateLayout)
	case ReportMonth:
		f.DateFrom = now.AddDate(0, -1, 0).Format(holidays.DateLayout)
	}
	return f
}

// BuildSalesReport hitung agregat dari daftar reservasi. Murni; pemanggil
// menyuplai hasil List.
func BuildSalesReport(rs []Reservation) SalesReport {
	var rep SalesReport
	byDate := map[string]*DailySale{}
	var dates []string

	for _, r := range rs {
		if r.Status == StatusCancelled {
			continue
		}
		rep.TotalRevenue += r.TotalPrice
		rep.TotalOrders++
		switch r.Status {
		case StatusConfirmed, StatusCompleted:
			rep.ConfirmedRevenue += r.TotalPrice
			rep.ConfirmedOrders++
		case StatusPending:
			rep.PendingOrders++
		}

		d, ok := byDate[r.Date]
		if !ok {
			d = &DailySale{Date: r.Date}
			byDate[r.Date] = d
			dates = append(dates, r.Date)
		}
		d.Revenue += r.TotalPrice
		d.Orders++
		if r.Status == StatusConfirmed || r.Status == StatusCompleted {
			d.Confirmed += r.TotalPrice
		}
	}

	if rep.TotalOrders > 0 {
		rep.AverageOrder = rep.TotalRevenue / rep.TotalOrders
	}
	for _, ds := range dates {
		rep.Daily = append(rep.Daily, *byDate[ds])
	}
	return rep
}

// SalesReport ambil reservasi periode terkait lalu agregasi.
func (r *Repo) SalesReport(ctx context.Context, period ReportPeriod, now time.Time) (SalesReport, error) {
	rs, err := r.List(ctx, reportFilter(period, now))
	if err != nil {
		return SalesReport{}, err
	}
	return BuildSalesReport(rs), nil
}

// Customers agregasi daftar pelanggan langsung di DB.
func (r *Repo) Customers(ctx context.Context) ([]Customer, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT email, MAX(name), MAX(phone),
		       COUNT(*), COALESCE(SUM(total_price), 0), MAX(created_at)
		FROM reservations
		WHERE status <> 'cancelled'
		GROUP BY email
		ORDER BY COALESCE(SUM(total_price), 0) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.Email, &c.Name, &c.Phone, &c.TotalOrders, &c.TotalSpent, &c.LastOrderAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
