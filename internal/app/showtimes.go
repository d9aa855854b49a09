package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/api"
	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (app *Application) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	showtimes, err := app.showtimeRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeShowtimeList(w, r, showtimes)
}

func (app *Application) GetActiveShowtimes(w http.ResponseWriter, r *http.Request) {
	showtimes, err := app.showtimeRepo.GetActive(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeShowtimeList(w, r, showtimes)
}

func (app *Application) GetShowtimesByDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateLayout, chi.URLParam(r, "date"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid date parameter, expected YYYY-MM-DD"))
		return
	}

	showtimes, err := app.showtimeRepo.GetByDate(r.Context(), date)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeShowtimeList(w, r, showtimes)
}

func (app *Application) GetShowtimesByMovie(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		app.badRequestResponse(w, r, errors.New("movie name must not be empty"))
		return
	}

	showtimes, err := app.showtimeRepo.GetByMovieName(r.Context(), name)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeShowtimeList(w, r, showtimes)
}

func (app *Application) GetShowtime(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiShowtime(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetAvailableSeats exposes the seat map a client needs to render seat
// selection. The snapshot can be stale the moment it is written: the reserve
// operation revalidates against the live occupied set.
func (app *Application) GetAvailableSeats(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.AvailableSeatsResponse{
		ShowtimeId:     showtime.ID,
		Capacity:       showtime.Capacity,
		OccupiedSeats:  showtime.OccupiedSeats,
		AvailableSeats: showtime.AvailableSeatCount(),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req api.CreateShowtimeRequest

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

	showtime := &domain.Showtime{
		MovieID:  req.MovieId,
		Room:     req.Room,
		StartsAt: req.StartsAt,
		Capacity: req.Capacity,
		Price:    req.Price,
		State:    domain.ShowtimeStateActive,
	}

	err = app.showtimeRepo.Create(r.Context(), showtime)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.badRequestResponse(w, r, errors.New("movie does not exist"))
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiShowtime(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateShowtime(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var req api.UpdateShowtimeRequest

	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if req.Room != nil {
		showtime.Room = *req.Room
	}
	if req.StartsAt != nil {
		showtime.StartsAt = *req.StartsAt
	}
	if req.Capacity != nil {
		if *req.Capacity < len(showtime.OccupiedSeats) {
			app.badRequestResponse(w, r, errors.New("capacity cannot be lower than the number of occupied seats"))
			return
		}
		showtime.Capacity = *req.Capacity
	}
	if req.Price != nil {
		showtime.Price = *req.Price
	}

	err = app.showtimeRepo.Update(r.Context(), showtime)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiShowtime(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CompleteShowtime closes a showtime ahead of the daily archival sweep.
// Completing an already completed showtime is a no-op.
func (app *Application) CompleteShowtime(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.showtimeRepo.MarkCompleted(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrShowtimeNotActive):
			app.invalidStateResponse(w, r, "Cancelled showtimes cannot be completed")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.showtimeRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrShowtimeHasReservations):
			app.invalidStateResponse(w, r, "Showtime still has reservations and cannot be deleted")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) writeShowtimeList(w http.ResponseWriter, r *http.Request, showtimes []*domain.Showtime) {
	resp := make([]api.Showtime, len(showtimes))
	for i, showtime := range showtimes {
		resp[i] = toApiShowtime(showtime)
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiShowtime(showtime *domain.Showtime) api.Showtime {
	if showtime == nil {
		return api.Showtime{}
	}

	resp := api.Showtime{
		Id:             showtime.ID,
		MovieId:        showtime.MovieID,
		Room:           showtime.Room,
		StartsAt:       showtime.StartsAt,
		Capacity:       showtime.Capacity,
		Price:          showtime.Price,
		State:          string(showtime.State),
		OccupiedSeats:  showtime.OccupiedSeats,
		AvailableSeats: showtime.AvailableSeatCount(),
	}

	if showtime.Movie != nil {
		movie := toApiMovie(showtime.Movie)
		resp.Movie = &movie
	}

	return resp
}
