package app

import (
	"errors"
	"net/http"

	"github.com/cinegrupo/cinema-ticketing-system/api"
	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
)

// GenerateTicket renders a ticket image for a paid reservation. Rendering is
// idempotent: once an image URL is stored, subsequent calls return it without
// touching the rendering provider again.
func (app *Application) GenerateTicket(w http.ResponseWriter, r *http.Request) {
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

	if reservation.PaymentStatus != domain.PaymentStatusPaid {
		app.invalidStateResponse(w, r, "Ticket can only be generated for a paid reservation")
		return
	}

	if reservation.TicketImageURL != nil {
		resp := api.TicketResponse{
			ReservationId: reservation.ID,
			ImageURL:      *reservation.TicketImageURL,
		}

		err = app.writeJSON(w, http.StatusOK, resp, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	render := domain.TicketRender{
		Seats: reservation.Seats,
		Date:  reservation.ReservedFor.Format("2006-01-02 15:04"),
	}

	if reservation.Showtime != nil {
		render.Location = reservation.Showtime.Room
		if reservation.Showtime.Movie != nil {
			render.MovieTitle = reservation.Showtime.Movie.Title
		}
	}

	imageURL, err := app.ticketRenderer.Render(r.Context(), render)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRenderTimeout):
			app.logError(r, err)
			app.errorResponse(w, r, http.StatusGatewayTimeout, "Ticket rendering did not finish in time, try again")
		default:
			app.upstreamFailureResponse(w, r, err)
		}
		return
	}

	err = app.reservationRepo.SetTicketImageURL(r.Context(), reservation.ID, imageURL)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.TicketResponse{
		ReservationId: reservation.ID,
		ImageURL:      imageURL,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
