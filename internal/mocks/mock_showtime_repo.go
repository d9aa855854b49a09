package mocks

import (
	"context"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowtimeRepo struct {
	mock.Mock
	domain.ShowtimeRepository
}

func (m *MockShowtimeRepo) Create(ctx context.Context, showtime *domain.Showtime) error {
	args := m.Called(ctx, showtime)
	return args.Error(0)
}

func (m *MockShowtimeRepo) GetAll(ctx context.Context) ([]*domain.Showtime, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) GetActive(ctx context.Context) ([]*domain.Showtime, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) GetByDate(ctx context.Context, date time.Time) ([]*domain.Showtime, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) GetByMovieName(ctx context.Context, name string) ([]*domain.Showtime, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) Update(ctx context.Context, showtime *domain.Showtime) error {
	args := m.Called(ctx, showtime)
	return args.Error(0)
}

func (m *MockShowtimeRepo) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShowtimeRepo) ReserveSeats(ctx context.Context, showtimeID int, seats []string) error {
	args := m.Called(ctx, showtimeID, seats)
	return args.Error(0)
}

func (m *MockShowtimeRepo) ReleaseSeats(ctx context.Context, showtimeID int, seats []string) error {
	args := m.Called(ctx, showtimeID, seats)
	return args.Error(0)
}

func (m *MockShowtimeRepo) MarkCompleted(ctx context.Context, showtimeID int) error {
	args := m.Called(ctx, showtimeID)
	return args.Error(0)
}

func (m *MockShowtimeRepo) ArchivePast(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}
