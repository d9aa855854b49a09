package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailyCount is one day's worth of an aggregated metric.
type DailyCount struct {
	Day     time.Time
	Tickets int
	Revenue decimal.Decimal
}

type MonthlyRevenue struct {
	Month   int
	Revenue decimal.Decimal
}

type PeriodTotals struct {
	Revenue decimal.Decimal
	Tickets int
}

type MovieSales struct {
	MovieTitle string
	Tickets    int
}

type ShowtimeAttendance struct {
	ShowtimeID int
	MovieTitle string
	Room       string
	StartsAt   time.Time
	Tickets    int
}

type ReportRepository interface {
	DailySales(ctx context.Context, from, to time.Time) ([]DailyCount, error)
	MonthlyRevenue(ctx context.Context, year int) ([]MonthlyRevenue, error)
	TotalsSince(ctx context.Context, since time.Time) (*PeriodTotals, error)
	SalesByMovie(ctx context.Context) ([]MovieSales, error)
	AttendanceByShowtime(ctx context.Context) ([]ShowtimeAttendance, error)
}
