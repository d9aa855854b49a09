// Package api holds the typed request and response bodies of the HTTP
// surface. Handlers translate between these and the domain types; domain
// types never leak onto the wire directly.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

// SeatConflictResponse carries the seats that were already taken so the
// client can re-prompt seat selection.
type SeatConflictResponse struct {
	Message          string    `json:"message"`
	ConflictingSeats []string  `json:"conflictingSeats"`
	RequestId        string    `json:"requestId,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// Movies

type CreateMovieRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	ReleaseDate string `json:"releaseDate" validate:"required,datetime=2006-01-02"`
	TrailerURL  string `json:"trailerUrl" validate:"omitempty,url"`
	PosterURL   string `json:"posterUrl" validate:"omitempty,url"`
}

type UpdateMovieRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	ReleaseDate *string `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
	TrailerURL  *string `json:"trailerUrl" validate:"omitempty,url"`
	PosterURL   *string `json:"posterUrl" validate:"omitempty,url"`
}

type Movie struct {
	Id          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ReleaseDate string `json:"releaseDate"`
	TrailerURL  string `json:"trailerUrl,omitempty"`
	PosterURL   string `json:"posterUrl,omitempty"`
}

// Showtimes

type CreateShowtimeRequest struct {
	MovieId  int             `json:"movieId" validate:"required,min=1"`
	Room     string          `json:"room" validate:"required,max=50"`
	StartsAt time.Time       `json:"startsAt" validate:"required"`
	Capacity int             `json:"capacity" validate:"required,min=1,max=500"`
	Price    decimal.Decimal `json:"price" validate:"required"`
}

type UpdateShowtimeRequest struct {
	Room     *string          `json:"room" validate:"omitempty,max=50"`
	StartsAt *time.Time       `json:"startsAt"`
	Capacity *int             `json:"capacity" validate:"omitempty,min=1,max=500"`
	Price    *decimal.Decimal `json:"price"`
}

type Showtime struct {
	Id             int             `json:"id"`
	Movie          *Movie          `json:"movie,omitempty"`
	MovieId        int             `json:"movieId"`
	Room           string          `json:"room"`
	StartsAt       time.Time       `json:"startsAt"`
	Capacity       int             `json:"capacity"`
	Price          decimal.Decimal `json:"price"`
	State          string          `json:"state"`
	OccupiedSeats  []string        `json:"occupiedSeats"`
	AvailableSeats int             `json:"availableSeats"`
}

type AvailableSeatsResponse struct {
	ShowtimeId     int      `json:"showtimeId"`
	Capacity       int      `json:"capacity"`
	OccupiedSeats  []string `json:"occupiedSeats"`
	AvailableSeats int      `json:"availableSeats"`
}

// Reservations

type CreateReservationRequest struct {
	UserId     int             `json:"userId" validate:"required,min=1"`
	ShowtimeId int             `json:"showtimeId" validate:"required,min=1"`
	SeatCount  int             `json:"seatCount" validate:"required,min=1"`
	Seats      []string        `json:"seats" validate:"required,min=1,dive,seat_id"`
	Date       time.Time       `json:"date" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"required"`
}

type UpdateReservationRequest struct {
	Date  *time.Time       `json:"date"`
	Price *decimal.Decimal `json:"price"`
}

type Reservation struct {
	Id                int             `json:"id"`
	UserId            int             `json:"userId"`
	ShowtimeId        int             `json:"showtimeId"`
	Showtime          *Showtime       `json:"showtime,omitempty"`
	SeatCount         int             `json:"seatCount"`
	Seats             []string        `json:"seats"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	Date              time.Time       `json:"date"`
	PaymentStatus     string          `json:"paymentStatus"`
	ExternalReference string          `json:"externalReference"`
	TicketImageURL    *string         `json:"ticketImageUrl,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type TicketResponse struct {
	ReservationId int    `json:"reservationId"`
	ImageURL      string `json:"imageUrl"`
}

// Payments

type PaymentLinkRequest struct {
	PayerEmail    string          `json:"payerEmail" validate:"required,email"`
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description"`
	PictureURL    string          `json:"pictureUrl" validate:"omitempty,url"`
	CategoryId    string          `json:"categoryId"`
	Quantity      int             `json:"quantity" validate:"required,min=1"`
	UnitPrice     decimal.Decimal `json:"unitPrice" validate:"required"`
	ReservationId int             `json:"reservationId" validate:"required,min=1"`
}

type PaymentLinkResponse struct {
	PreferenceId string `json:"preferenceId"`
	InitPoint    string `json:"initPoint"`
}

// WebhookRequest is the provider's notification body. It is only a trigger:
// the actual payment status is re-fetched from the provider by ID.
type WebhookRequest struct {
	Type string      `json:"type"`
	Data WebhookData `json:"data"`
}

type WebhookData struct {
	Id string `json:"id"`
}

// Users

type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"required,oneof=admin customer"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Active    *bool   `json:"active"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type User struct {
	Id        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Reports

// ChartResponse is shaped for direct consumption by the dashboard's chart
// library: one label and one datapoint per bucket.
type ChartResponse struct {
	Labels          []string          `json:"labels"`
	Data            []decimal.Decimal `json:"data"`
	BackgroundColor []string          `json:"backgroundColor"`
}

type MonthlyTotalsResponse struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalTickets int             `json:"totalTickets"`
}
