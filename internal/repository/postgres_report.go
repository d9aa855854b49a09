package repository

import (
	"context"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresReportRepository serves the dashboard's read-only aggregation
// views. Rejected reservations are excluded from every revenue figure.
type PostgresReportRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReportRepository(db *pgxpool.Pool) *PostgresReportRepository {
	return &PostgresReportRepository{
		db: db,
	}
}

func (p *PostgresReportRepository) DailySales(ctx context.Context, from, to time.Time) ([]domain.DailyCount, error) {
	query := `
		SELECT date_trunc('day', reserved_for) AS day,
			coalesce(sum(seat_count), 0),
			coalesce(sum(total_price), 0)
		FROM reservations
		WHERE reserved_for >= $1 AND reserved_for <= $2
			AND payment_status <> 'rejected'
		GROUP BY day
		ORDER BY day
	`

	rows, err := p.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.DailyCount, 0)

	for rows.Next() {
		var count domain.DailyCount

		err = rows.Scan(&count.Day, &count.Tickets, &count.Revenue)
		if err != nil {
			return nil, err
		}

		counts = append(counts, count)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (p *PostgresReportRepository) MonthlyRevenue(ctx context.Context, year int) ([]domain.MonthlyRevenue, error) {
	query := `
		SELECT extract(month FROM reserved_for)::int AS month,
			coalesce(sum(total_price), 0)
		FROM reservations
		WHERE extract(year FROM reserved_for) = $1
			AND payment_status <> 'rejected'
		GROUP BY month
		ORDER BY month
	`

	rows, err := p.db.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revenues := make([]domain.MonthlyRevenue, 0)

	for rows.Next() {
		var revenue domain.MonthlyRevenue

		err = rows.Scan(&revenue.Month, &revenue.Revenue)
		if err != nil {
			return nil, err
		}

		revenues = append(revenues, revenue)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return revenues, nil
}

func (p *PostgresReportRepository) TotalsSince(ctx context.Context, since time.Time) (*domain.PeriodTotals, error) {
	query := `
		SELECT coalesce(sum(total_price), 0), coalesce(sum(seat_count), 0)
		FROM reservations
		WHERE reserved_for >= $1 AND payment_status <> 'rejected'
	`

	totals := domain.PeriodTotals{Revenue: decimal.Zero}

	err := p.db.QueryRow(ctx, query, since).Scan(&totals.Revenue, &totals.Tickets)
	if err != nil {
		return nil, err
	}

	return &totals, nil
}

func (p *PostgresReportRepository) SalesByMovie(ctx context.Context) ([]domain.MovieSales, error) {
	query := `
		SELECT m.title, coalesce(sum(r.seat_count), 0) AS tickets
		FROM reservations r
		JOIN showtimes s ON r.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
		WHERE r.payment_status <> 'rejected'
		GROUP BY m.id, m.title
		ORDER BY tickets DESC
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.MovieSales, 0)

	for rows.Next() {
		var sale domain.MovieSales

		err = rows.Scan(&sale.MovieTitle, &sale.Tickets)
		if err != nil {
			return nil, err
		}

		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sales, nil
}

func (p *PostgresReportRepository) AttendanceByShowtime(ctx context.Context) ([]domain.ShowtimeAttendance, error) {
	query := `
		SELECT s.id, m.title, s.room, s.starts_at, coalesce(sum(r.seat_count), 0) AS tickets
		FROM reservations r
		JOIN showtimes s ON r.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
		WHERE r.payment_status <> 'rejected'
		GROUP BY s.id, m.title, s.room, s.starts_at
		ORDER BY s.starts_at DESC
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendance := make([]domain.ShowtimeAttendance, 0)

	for rows.Next() {
		var item domain.ShowtimeAttendance

		err = rows.Scan(&item.ShowtimeID, &item.MovieTitle, &item.Room, &item.StartsAt, &item.Tickets)
		if err != nil {
			return nil, err
		}

		attendance = append(attendance, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return attendance, nil
}
