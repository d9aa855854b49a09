package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound          = errors.New("record not found")
	ErrEditConflict            = errors.New("edit conflict")
	ErrShowtimeNotActive       = errors.New("showtime is not active")
	ErrShowtimeFull            = errors.New("showtime has no capacity for the requested seats")
	ErrShowtimeHasReservations = errors.New("showtime still has reservations")
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrRenderTimeout           = errors.New("ticket rendering did not finish in time")
)

// SeatConflictError reports which of the requested seats were already taken,
// so the client can re-prompt seat selection.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already reserved: %s", strings.Join(e.Seats, ", "))
}
