package app

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/api"
	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/cinegrupo/cinema-ticketing-system/internal/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportsTestSuite struct {
	suite.Suite
	app         *Application
	reportRepo  *mocks.MockReportRepo
	redisClient *mocks.MockRedisClient
}

func (s *ReportsTestSuite) SetupTest() {
	s.reportRepo = new(mocks.MockReportRepo)
	s.redisClient = new(mocks.MockRedisClient)
	s.app = newTestApplication(func(a *Application) {
		a.reportRepo = s.reportRepo
		a.redis = s.redisClient
	})
}

func TestReportsSuite(t *testing.T) {
	suite.Run(t, new(ReportsTestSuite))
}

func (s *ReportsTestSuite) expectCacheMiss(key string) {
	s.redisClient.On("Get", mock.Anything, key).
		Return(redis.NewStringResult("", redis.Nil))
	s.redisClient.On("Set", mock.Anything, key, mock.Anything, reportCacheTTL).
		Return(redis.NewStatusResult("OK", nil))
}

func (s *ReportsTestSuite) TestWeeklyTicketsReportFillsMissingDays() {
	s.expectCacheMiss("reports:weekly-tickets")

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	s.reportRepo.On("DailySales", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.DailyCount{
			{Day: today, Tickets: 3, Revenue: decimal.NewFromInt(30)},
		}, nil)

	w, r := executeRequest(s.T(), http.MethodGet, "/reports/weekly-tickets", nil)

	s.app.GetWeeklyTicketsReport(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.ChartResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	s.Require().NoError(err)

	s.Len(resp.Labels, 7)
	s.Len(resp.Data, 7)
	s.Len(resp.BackgroundColor, 7)

	// Days without sales are zero-filled, today carries the real count.
	s.Equal(today.Format(dateLayout), resp.Labels[6])
	s.True(resp.Data[6].Equal(decimal.NewFromInt(3)))
	for i := range 6 {
		s.True(resp.Data[i].IsZero(), "day %d should be zero", i)
	}

	s.reportRepo.AssertExpectations(s.T())
	s.redisClient.AssertExpectations(s.T())
}

func (s *ReportsTestSuite) TestWeeklyRevenueReportServedFromCache() {
	cached := api.ChartResponse{
		Labels:          []string{"2026-08-24"},
		Data:            []decimal.Decimal{decimal.NewFromInt(120)},
		BackgroundColor: []string{"#36a2eb"},
	}
	encoded, err := json.Marshal(cached)
	s.Require().NoError(err)

	s.redisClient.On("Get", mock.Anything, "reports:weekly-revenue").
		Return(redis.NewStringResult(string(encoded), nil))

	w, r := executeRequest(s.T(), http.MethodGet, "/reports/weekly-revenue", nil)

	s.app.GetWeeklyRevenueReport(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.ChartResponse
	err = json.NewDecoder(w.Body).Decode(&resp)
	s.Require().NoError(err)
	s.Equal(cached.Labels, resp.Labels)

	s.reportRepo.AssertNotCalled(s.T(), "DailySales", mock.Anything, mock.Anything, mock.Anything)
	s.redisClient.AssertExpectations(s.T())
}

func (s *ReportsTestSuite) TestAnnualRevenueReport() {
	year := time.Now().Year()
	s.expectCacheMiss("reports:annual-revenue:" + strconv.Itoa(year))

	s.reportRepo.On("MonthlyRevenue", mock.Anything, year).
		Return([]domain.MonthlyRevenue{
			{Month: 1, Revenue: decimal.NewFromInt(500)},
			{Month: 8, Revenue: decimal.NewFromInt(750)},
		}, nil)

	w, r := executeRequest(s.T(), http.MethodGet, "/reports/annual-revenue", nil)

	s.app.GetAnnualRevenueReport(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.ChartResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	s.Require().NoError(err)

	s.Equal(monthLabels, resp.Labels)
	s.True(resp.Data[0].Equal(decimal.NewFromInt(500)))
	s.True(resp.Data[7].Equal(decimal.NewFromInt(750)))
	s.True(resp.Data[2].IsZero())

	s.reportRepo.AssertExpectations(s.T())
}

func (s *ReportsTestSuite) TestMonthlyTotalsReport() {
	s.reportRepo.On("TotalsSince", mock.Anything, mock.MatchedBy(func(since time.Time) bool {
		return since.Day() == 1
	})).Return(&domain.PeriodTotals{
		Revenue: decimal.NewFromInt(1250),
		Tickets: 98,
	}, nil)

	w, r := executeRequest(s.T(), http.MethodGet, "/reports/monthly-totals", nil)

	s.app.GetMonthlyTotalsReport(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.MonthlyTotalsResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	s.Require().NoError(err)
	s.True(resp.TotalRevenue.Equal(decimal.NewFromInt(1250)))
	s.Equal(98, resp.TotalTickets)

	s.reportRepo.AssertExpectations(s.T())
}

func (s *ReportsTestSuite) TestSalesByMovieReport() {
	s.expectCacheMiss("reports:sales-by-movie")

	s.reportRepo.On("SalesByMovie", mock.Anything).
		Return([]domain.MovieSales{
			{MovieTitle: "The Matrix", Tickets: 41},
			{MovieTitle: "Inception", Tickets: 17},
		}, nil)

	w, r := executeRequest(s.T(), http.MethodGet, "/reports/sales-by-movie", nil)

	s.app.GetSalesByMovieReport(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.ChartResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	s.Require().NoError(err)
	s.Equal([]string{"The Matrix", "Inception"}, resp.Labels)
	s.True(resp.Data[0].Equal(decimal.NewFromInt(41)))

	s.reportRepo.AssertExpectations(s.T())
}
