package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/api"
	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// reportCacheTTL keeps dashboard charts cheap to poll. Reports tolerate
// slightly stale data, sales do not move fast enough to matter within it.
const reportCacheTTL = 5 * time.Minute

// chartPalette matches the dashboard's chart library defaults.
var chartPalette = []string{
	"#36a2eb", "#ff6384", "#4bc0c0", "#ff9f40", "#9966ff", "#ffcd56", "#c9cbcf",
}

var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func (app *Application) GetWeeklyTicketsReport(w http.ResponseWriter, r *http.Request) {
	app.serveCachedChart(w, r, "reports:weekly-tickets", func(ctx context.Context) (*api.ChartResponse, error) {
		return app.buildWeeklyChart(ctx, func(day domain.DailyCount) decimal.Decimal {
			return decimal.NewFromInt(int64(day.Tickets))
		})
	})
}

func (app *Application) GetWeeklyRevenueReport(w http.ResponseWriter, r *http.Request) {
	app.serveCachedChart(w, r, "reports:weekly-revenue", func(ctx context.Context) (*api.ChartResponse, error) {
		return app.buildWeeklyChart(ctx, func(day domain.DailyCount) decimal.Decimal {
			return day.Revenue
		})
	})
}

func (app *Application) GetAnnualRevenueReport(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()

	app.serveCachedChart(w, r, fmt.Sprintf("reports:annual-revenue:%d", year), func(ctx context.Context) (*api.ChartResponse, error) {
		months, err := app.reportRepo.MonthlyRevenue(ctx, year)
		if err != nil {
			return nil, err
		}

		resp := newChartResponse(monthLabels)
		for _, month := range months {
			if month.Month < 1 || month.Month > 12 {
				continue
			}
			resp.Data[month.Month-1] = month.Revenue
		}

		return resp, nil
	})
}

func (app *Application) GetMonthlyTotalsReport(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	totals, err := app.reportRepo.TotalsSince(r.Context(), monthStart)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MonthlyTotalsResponse{
		TotalRevenue: totals.Revenue,
		TotalTickets: totals.Tickets,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSalesByMovieReport(w http.ResponseWriter, r *http.Request) {
	app.serveCachedChart(w, r, "reports:sales-by-movie", func(ctx context.Context) (*api.ChartResponse, error) {
		sales, err := app.reportRepo.SalesByMovie(ctx)
		if err != nil {
			return nil, err
		}

		labels := make([]string, len(sales))
		resp := newChartResponse(labels)
		for i, sale := range sales {
			resp.Labels[i] = sale.MovieTitle
			resp.Data[i] = decimal.NewFromInt(int64(sale.Tickets))
		}

		return resp, nil
	})
}

func (app *Application) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	app.serveCachedChart(w, r, "reports:attendance", func(ctx context.Context) (*api.ChartResponse, error) {
		attendance, err := app.reportRepo.AttendanceByShowtime(ctx)
		if err != nil {
			return nil, err
		}

		labels := make([]string, len(attendance))
		resp := newChartResponse(labels)
		for i, row := range attendance {
			resp.Labels[i] = fmt.Sprintf("%s (%s, %s)", row.MovieTitle, row.Room, row.StartsAt.Format("2006-01-02 15:04"))
			resp.Data[i] = decimal.NewFromInt(int64(row.Tickets))
		}

		return resp, nil
	})
}

// buildWeeklyChart aggregates the trailing seven days and fills days with no
// sales with zeroes so the chart always has seven points.
func (app *Application) buildWeeklyChart(ctx context.Context, pick func(domain.DailyCount) decimal.Decimal) (*api.ChartResponse, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := today.AddDate(0, 0, -6)

	days, err := app.reportRepo.DailySales(ctx, from, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]domain.DailyCount, len(days))
	for _, day := range days {
		byDay[day.Day.Format(dateLayout)] = day
	}

	labels := make([]string, 7)
	resp := newChartResponse(labels)
	for i := range 7 {
		day := from.AddDate(0, 0, i)
		resp.Labels[i] = day.Format(dateLayout)
		if count, ok := byDay[day.Format(dateLayout)]; ok {
			resp.Data[i] = pick(count)
		}
	}

	return resp, nil
}

func (app *Application) serveCachedChart(w http.ResponseWriter, r *http.Request, key string, build func(context.Context) (*api.ChartResponse, error)) {
	ctx := r.Context()

	cached, err := app.redis.Get(ctx, key).Result()
	if err == nil {
		var resp api.ChartResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			app.writeJSON(w, http.StatusOK, resp, nil)
			return
		}
		// Corrupt cache entry, rebuild below.
	} else if !errors.Is(err, redis.Nil) {
		app.logError(r, err)
	}

	resp, err := build(ctx)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if encoded, err := json.Marshal(resp); err == nil {
		if err := app.redis.Set(ctx, key, encoded, reportCacheTTL).Err(); err != nil {
			app.logError(r, err)
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func newChartResponse(labels []string) *api.ChartResponse {
	data := make([]decimal.Decimal, len(labels))
	for i := range data {
		data[i] = decimal.Zero
	}

	colors := make([]string, len(labels))
	for i := range colors {
		colors[i] = chartPalette[i%len(chartPalette)]
	}

	return &api.ChartResponse{
		Labels:          labels,
		Data:            data,
		BackgroundColor: colors,
	}
}
