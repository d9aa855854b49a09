package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ShowtimeState string

const (
	ShowtimeStateActive    ShowtimeState = "active"
	ShowtimeStateCompleted ShowtimeState = "completed"
	ShowtimeStateCancelled ShowtimeState = "cancelled"
)

// Showtime is one scheduled screening of a movie in a room. Its occupied-seat
// set is owned exclusively by the ShowtimeRepository: no other component
// mutates it except through ReserveSeats and ReleaseSeats.
type Showtime struct {
	ID            int
	MovieID       int
	Movie         *Movie
	Room          string
	StartsAt      time.Time
	Capacity      int
	Price         decimal.Decimal
	State         ShowtimeState
	OccupiedSeats []string
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s *Showtime) AvailableSeatCount() int {
	return s.Capacity - len(s.OccupiedSeats)
}

type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *Showtime) error
	GetAll(ctx context.Context) ([]*Showtime, error)
	GetActive(ctx context.Context) ([]*Showtime, error)
	GetById(ctx context.Context, id int) (*Showtime, error)
	GetByDate(ctx context.Context, date time.Time) ([]*Showtime, error)
	GetByMovieName(ctx context.Context, name string) ([]*Showtime, error)
	Update(ctx context.Context, showtime *Showtime) error
	Delete(ctx context.Context, id int) error

	// ReserveSeats atomically claims the given seats. Two concurrent calls
	// requesting overlapping seats must not both succeed: the first committed
	// update wins and the loser gets a *SeatConflictError naming the seats
	// that were already taken.
	ReserveSeats(ctx context.Context, showtimeID int, seats []string) error

	// ReleaseSeats removes the given seats from the occupied set. Releasing a
	// seat that is not occupied is a no-op.
	ReleaseSeats(ctx context.Context, showtimeID int, seats []string) error

	// MarkCompleted transitions active -> completed. Completed showtimes stay
	// completed; cancelled ones return ErrShowtimeNotActive.
	MarkCompleted(ctx context.Context, showtimeID int) error

	// ArchivePast transitions every active showtime that started before the
	// given cutoff to completed and reports how many rows changed.
	ArchivePast(ctx context.Context, cutoff time.Time) (int, error)
}
