package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Reservation is one customer's claim on a set of seats for one showtime.
// Its seats are a subset of the showtime's occupied-seat set for the whole
// lifetime of the reservation; cancellation releases them again.
type Reservation struct {
	ID                int
	UserID            int
	ShowtimeID        int
	Showtime          *Showtime
	SeatCount         int
	Seats             []string
	TotalPrice        decimal.Decimal
	ReservedFor       time.Time
	PaymentStatus     PaymentStatus
	ExternalReference string
	TicketImageURL    *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *Reservation) error
	GetAll(ctx context.Context) ([]*Reservation, error)
	GetById(ctx context.Context, id int) (*Reservation, error)
	GetByExternalReference(ctx context.Context, ref string) (*Reservation, error)
	GetByUserId(ctx context.Context, userID int) ([]*Reservation, error)
	Update(ctx context.Context, reservation *Reservation) error
	Delete(ctx context.Context, id int) error

	// UpdatePaymentStatus applies the payment state machine: only pending
	// reservations transition, so replaying the same provider notification is
	// a no-op. It reports whether a row actually changed.
	UpdatePaymentStatus(ctx context.Context, externalReference string, status PaymentStatus) (bool, error)

	SetTicketImageURL(ctx context.Context, id int, url string) error
}
