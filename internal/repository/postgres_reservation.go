package repository

import (
	"context"
	"errors"

	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db: db,
	}
}

func (p *PostgresReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (
			user_id,
			showtime_id,
			seat_count,
			seats,
			total_price,
			reserved_for,
			payment_status,
			external_reference
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		reservation.UserID,
		reservation.ShowtimeID,
		reservation.SeatCount,
		reservation.Seats,
		reservation.TotalPrice,
		reservation.ReservedFor,
		reservation.PaymentStatus,
		reservation.ExternalReference,
	).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return domain.ErrRecordNotFound
	}

	return err
}

const reservationColumns = `
	r.id, r.user_id, r.showtime_id, r.seat_count, r.seats, r.total_price,
	r.reserved_for, r.payment_status, r.external_reference, r.ticket_image_url,
	r.created_at, r.updated_at,
	s.id, s.movie_id, s.room, s.starts_at, s.capacity, s.price, s.state,
	s.occupied_seats, s.version, s.created_at, s.updated_at,
	m.id, m.title, m.description, m.release_date, m.trailer_url, m.poster_url, m.created_at
`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var reservation domain.Reservation
	var showtime domain.Showtime
	var movie domain.Movie

	err := row.Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.ShowtimeID,
		&reservation.SeatCount,
		&reservation.Seats,
		&reservation.TotalPrice,
		&reservation.ReservedFor,
		&reservation.PaymentStatus,
		&reservation.ExternalReference,
		&reservation.TicketImageURL,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
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
	reservation.Showtime = &showtime

	return &reservation, nil
}

const reservationJoins = `
	FROM reservations r
	JOIN showtimes s ON r.showtime_id = s.id
	JOIN movies m ON s.movie_id = m.id
`

func (p *PostgresReservationRepository) getMany(ctx context.Context, query string, args ...any) ([]*domain.Reservation, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}

		reservations = append(reservations, reservation)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (p *PostgresReservationRepository) GetAll(ctx context.Context) ([]*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationJoins + `ORDER BY r.created_at DESC`

	return p.getMany(ctx, query)
}

func (p *PostgresReservationRepository) GetById(ctx context.Context, id int) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationJoins + `WHERE r.id = $1`

	reservation, err := scanReservation(p.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return reservation, nil
}

func (p *PostgresReservationRepository) GetByExternalReference(ctx context.Context, ref string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationJoins + `WHERE r.external_reference = $1`

	reservation, err := scanReservation(p.db.QueryRow(ctx, query, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return reservation, nil
}

func (p *PostgresReservationRepository) GetByUserId(ctx context.Context, userID int) ([]*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationJoins + `WHERE r.user_id = $1 ORDER BY r.reserved_for DESC`

	return p.getMany(ctx, query, userID)
}

func (p *PostgresReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET reserved_for = $1, total_price = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		reservation.ReservedFor,
		reservation.TotalPrice,
		reservation.ID,
	).Scan(&reservation.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrRecordNotFound
	}

	return err
}

func (p *PostgresReservationRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// UpdatePaymentStatus only moves reservations out of pending. Paid and
// rejected are terminal, so replaying a provider notification changes
// nothing and reports false.
func (p *PostgresReservationRepository) UpdatePaymentStatus(
	ctx context.Context,
	externalReference string,
	status domain.PaymentStatus) (bool, error) {

	query := `
		UPDATE reservations
		SET payment_status = $1, updated_at = now()
		WHERE external_reference = $2 AND payment_status = 'pending'
	`

	tag, err := p.db.Exec(ctx, query, status, externalReference)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (p *PostgresReservationRepository) SetTicketImageURL(ctx context.Context, id int, url string) error {
	tag, err := p.db.Exec(
		ctx,
		`UPDATE reservations SET ticket_image_url = $1, updated_at = now() WHERE id = $2`,
		url,
		id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
