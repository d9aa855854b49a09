package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresShowtimeRepository is the authoritative holder of per-showtime seat
// occupancy. ReserveSeats and ReleaseSeats are the only write paths for the
// occupied-seat set anywhere in the system.
type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	query := `
		INSERT INTO showtimes (movie_id, room, starts_at, capacity, price, state)
		VALUES ($1, $2, $3, $4, $5, 'active')
		RETURNING id, state, occupied_seats, version, created_at, updated_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		showtime.MovieID,
		showtime.Room,
		showtime.StartsAt,
		showtime.Capacity,
		showtime.Price,
	).Scan(
		&showtime.ID,
		&showtime.State,
		&showtime.OccupiedSeats,
		&showtime.Version,
		&showtime.CreatedAt,
		&showtime.UpdatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return domain.ErrRecordNotFound
	}

	return err
}

const showtimeColumns = `
	s.id, s.movie_id, s.room, s.starts_at, s.capacity, s.price, s.state,
	s.occupied_seats, s.version, s.created_at, s.updated_at,
	m.id, m.title, m.description, m.release_date, m.trailer_url, m.poster_url, m.created_at
`

func scanShowtime(row pgx.Row) (*domain.Showtime, error) {
	var showtime domain.Showtime
	var movie domain.Movie

	err := row.Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.Room,
		&showtime.StartsAt,
		&showtime.Capacity,
		&showtime.Price,
		&showtime.State,
		&showtime.OccupiedSeats,
		&showtime.Version,
		&showtime.CreatedAt,
		&showtime.UpdatedAt,
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.ReleaseDate,
		&movie.TrailerURL,
		&movie.PosterURL,
		&movie.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	showtime.Movie = &movie

	return &showtime, nil
}

func (p *PostgresShowtimeRepository) getMany(ctx context.Context, query string, args ...any) ([]*domain.Showtime, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showtimes := make([]*domain.Showtime, 0)

	for rows.Next() {
		showtime, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}

		showtimes = append(showtimes, showtime)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}

func (p *PostgresShowtimeRepository) GetAll(ctx context.Context) ([]*domain.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		ORDER BY s.starts_at
	`

	return p.getMany(ctx, query)
}

func (p *PostgresShowtimeRepository) GetActive(ctx context.Context) ([]*domain.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.state = 'active'
		ORDER BY s.starts_at
	`

	return p.getMany(ctx, query)
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.id = $1
	`

	showtime, err := scanShowtime(p.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return showtime, nil
}

func (p *PostgresShowtimeRepository) GetByDate(ctx context.Context, date time.Time) ([]*domain.Showtime, error) {
	day := date.Truncate(24 * time.Hour)

	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.state = 'active' AND s.starts_at >= $1 AND s.starts_at < $2
		ORDER BY s.starts_at
	`

	return p.getMany(ctx, query, day, day.Add(24*time.Hour))
}

func (p *PostgresShowtimeRepository) GetByMovieName(ctx context.Context, name string) ([]*domain.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.state = 'active' AND m.title ILIKE '%' || $1 || '%'
		ORDER BY s.starts_at
	`

	return p.getMany(ctx, query, name)
}

func (p *PostgresShowtimeRepository) Update(ctx context.Context, showtime *domain.Showtime) error {
	query := `
		UPDATE showtimes
		SET room = $1, starts_at = $2, capacity = $3, price = $4,
			version = version + 1, updated_at = now()
		WHERE id = $5 AND version = $6
		RETURNING version, updated_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		showtime.Room,
		showtime.StartsAt,
		showtime.Capacity,
		showtime.Price,
		showtime.ID,
		showtime.Version,
	).Scan(&showtime.Version, &showtime.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEditConflict
	}

	return err
}

// Delete refuses to remove a showtime that reservations still reference. The
// reservations table has an ON DELETE RESTRICT foreign key, so the guard
// holds even against a reservation created concurrently with the delete.
func (p *PostgresShowtimeRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM showtimes WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return domain.ErrShowtimeHasReservations
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// ReserveSeats claims seats with a single conditional update: the guard on
// array overlap and capacity makes the check-and-set atomic, so concurrent
// requests for overlapping seats serialize on the row and only the first
// commit succeeds. A zero-row result is re-read to tell the caller why.
func (p *PostgresShowtimeRepository) ReserveSeats(ctx context.Context, showtimeID int, seats []string) error {
	query := `
		UPDATE showtimes
		SET occupied_seats = occupied_seats || $2::text[],
			version = version + 1, updated_at = now()
		WHERE id = $1
			AND state = 'active'
			AND NOT (occupied_seats && $2::text[])
			AND cardinality(occupied_seats) + cardinality($2::text[]) <= capacity
	`

	tag, err := p.db.Exec(ctx, query, showtimeID, seats)
	if err != nil {
		return err
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	return p.diagnoseReserveFailure(ctx, showtimeID, seats)
}

func (p *PostgresShowtimeRepository) diagnoseReserveFailure(ctx context.Context, showtimeID int, seats []string) error {
	var state domain.ShowtimeState
	var occupied []string

	query := `SELECT state, occupied_seats FROM showtimes WHERE id = $1`

	err := p.db.QueryRow(ctx, query, showtimeID).Scan(&state, &occupied)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}

		return err
	}

	if state != domain.ShowtimeStateActive {
		return domain.ErrShowtimeNotActive
	}

	occupiedSet := make(map[string]bool, len(occupied))
	for _, seat := range occupied {
		occupiedSet[seat] = true
	}

	var conflicting []string
	for _, seat := range seats {
		if occupiedSet[seat] {
			conflicting = append(conflicting, seat)
		}
	}

	if len(conflicting) > 0 {
		return &domain.SeatConflictError{Seats: conflicting}
	}

	// The seats were free at read time, so the guard that failed was the
	// capacity check. The set may have changed again since, but the caller
	// only needs a retryable answer.
	return domain.ErrShowtimeFull
}

// ReleaseSeats removes seats from the occupied set. Seats not currently
// occupied are skipped, so replays are harmless.
func (p *PostgresShowtimeRepository) ReleaseSeats(ctx context.Context, showtimeID int, seats []string) error {
	query := `
		UPDATE showtimes
		SET occupied_seats = (
				SELECT coalesce(array_agg(seat ORDER BY ord), '{}')
				FROM unnest(occupied_seats) WITH ORDINALITY AS o(seat, ord)
				WHERE seat <> ALL($2::text[])
			),
			version = version + 1, updated_at = now()
		WHERE id = $1
	`

	tag, err := p.db.Exec(ctx, query, showtimeID, seats)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresShowtimeRepository) MarkCompleted(ctx context.Context, showtimeID int) error {
	query := `
		UPDATE showtimes
		SET state = 'completed', version = version + 1, updated_at = now()
		WHERE id = $1 AND state IN ('active', 'completed')
	`

	tag, err := p.db.Exec(ctx, query, showtimeID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = p.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM showtimes WHERE id = $1)`, showtimeID).Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrRecordNotFound
	}

	return domain.ErrShowtimeNotActive
}

func (p *PostgresShowtimeRepository) ArchivePast(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		UPDATE showtimes
		SET state = 'completed', version = version + 1, updated_at = now()
		WHERE state = 'active' AND starts_at < $1
	`

	tag, err := p.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}
