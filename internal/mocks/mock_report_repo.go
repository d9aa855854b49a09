package mocks

import (
	"context"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReportRepo struct {
	mock.Mock
	domain.ReportRepository
}

func (m *MockReportRepo) DailySales(ctx context.Context, from, to time.Time) ([]domain.DailyCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyCount), args.Error(1)
}

func (m *MockReportRepo) MonthlyRevenue(ctx context.Context, year int) ([]domain.MonthlyRevenue, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyRevenue), args.Error(1)
}

func (m *MockReportRepo) TotalsSince(ctx context.Context, since time.Time) (*domain.PeriodTotals, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodTotals), args.Error(1)
}

func (m *MockReportRepo) SalesByMovie(ctx context.Context) ([]domain.MovieSales, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MovieSales), args.Error(1)
}

func (m *MockReportRepo) AttendanceByShowtime(ctx context.Context) ([]domain.ShowtimeAttendance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShowtimeAttendance), args.Error(1)
}
