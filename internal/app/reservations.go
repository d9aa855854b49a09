package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cinegrupo/cinema-ticketing-system/api"
	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (app *Application) GetReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := app.reservationRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeReservationList(w, r, reservations)
}

func (app *Application) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	reservation, err := app.reservationRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiReservation(reservation), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservationsByUser(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	reservations, err := app.reservationRepo.GetByUserId(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeReservationList(w, r, reservations)
}

// CreateReservation claims the requested seats and persists the reservation.
// The seat claim commits first, so two racing requests for the same seats
// cannot both reach the insert; if the insert then fails, the claimed seats
// are released again.
func (app *Application) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req api.CreateReservationRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if req.SeatCount != len(req.Seats) {
		app.badRequestResponse(w, r, errors.New("seatCount must match the number of seats"))
		return
	}

	if dup := firstDuplicate(req.Seats); dup != "" {
		app.badRequestResponse(w, r, fmt.Errorf("duplicate seat in request: %s", dup))
		return
	}

	err = app.showtimeRepo.ReserveSeats(r.Context(), req.ShowtimeId, req.Seats)
	if err != nil {
		var seatConflict *domain.SeatConflictError

		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrShowtimeNotActive):
			app.invalidStateResponse(w, r, "Showtime is no longer open for reservations")
		case errors.Is(err, domain.ErrShowtimeFull):
			app.invalidStateResponse(w, r, "Showtime does not have enough free seats")
		case errors.As(err, &seatConflict):
			app.seatConflictResponse(w, r, seatConflict.Seats)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	reservation := &domain.Reservation{
		UserID:            req.UserId,
		ShowtimeID:        req.ShowtimeId,
		SeatCount:         req.SeatCount,
		Seats:             req.Seats,
		TotalPrice:        req.Price.Mul(decimal.NewFromInt(int64(req.SeatCount))),
		ReservedFor:       req.Date,
		PaymentStatus:     domain.PaymentStatusPending,
		ExternalReference: uuid.NewString(),
	}

	err = app.reservationRepo.Create(r.Context(), reservation)
	if err != nil {
		app.releaseSeatsOrLog(r, req.ShowtimeId, req.Seats)

		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.badRequestResponse(w, r, errors.New("user or showtime does not exist"))
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiReservation(reservation), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var req api.UpdateReservationRequest

	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reservation, err := app.reservationRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if req.Date != nil {
		reservation.ReservedFor = *req.Date
	}
	if req.Price != nil {
		reservation.TotalPrice = *req.Price
	}

	err = app.reservationRepo.Update(r.Context(), reservation)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiReservation(reservation), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CancelReservation deletes the reservation and returns its seats to the
// showtime. The seat release runs after the delete commits, so a failed
// release leaks seats rather than resurrecting the reservation; that case is
// logged for manual reconciliation and surfaced as a server error instead of
// a successful cancellation.
func (app *Application) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	reservation, err := app.reservationRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.reservationRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.showtimeRepo.ReleaseSeats(r.Context(), reservation.ShowtimeID, reservation.Seats)
	if err != nil {
		app.logInconsistency(r, "reservation deleted but seat release failed",
			"reservationId", id, "showtimeId", reservation.ShowtimeID, "seats", reservation.Seats, "error", err)
		app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) releaseSeatsOrLog(r *http.Request, showtimeID int, seats []string) {
	err := app.showtimeRepo.ReleaseSeats(r.Context(), showtimeID, seats)
	if err != nil {
		app.logInconsistency(r, "failed to release seats", "showtimeId", showtimeID, "seats", seats, "error", err)
	}
}

func (app *Application) writeReservationList(w http.ResponseWriter, r *http.Request, reservations []*domain.Reservation) {
	resp := make([]api.Reservation, len(reservations))
	for i, reservation := range reservations {
		resp[i] = toApiReservation(reservation)
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func firstDuplicate(seats []string) string {
	seen := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		if _, ok := seen[seat]; ok {
			return seat
		}
		seen[seat] = struct{}{}
	}
	return ""
}

func toApiReservation(reservation *domain.Reservation) api.Reservation {
	if reservation == nil {
		return api.Reservation{}
	}

	resp := api.Reservation{
		Id:                reservation.ID,
		UserId:            reservation.UserID,
		ShowtimeId:        reservation.ShowtimeID,
		SeatCount:         reservation.SeatCount,
		Seats:             reservation.Seats,
		TotalPrice:        reservation.TotalPrice,
		Date:              reservation.ReservedFor,
		PaymentStatus:     string(reservation.PaymentStatus),
		ExternalReference: reservation.ExternalReference,
		TicketImageURL:    reservation.TicketImageURL,
		CreatedAt:         reservation.CreatedAt,
	}

	if reservation.Showtime != nil {
		showtime := toApiShowtime(reservation.Showtime)
		resp.Showtime = &showtime
	}

	return resp
}
