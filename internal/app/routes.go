package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(otelchi.Middleware("cinema-ticketing-api", otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)

	r.Get("/health", app.GetHealth)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", app.GetMovies)
		r.Post("/", app.CreateMovie)
		r.Get("/{id}", app.GetMovie)
		r.Put("/{id}", app.UpdateMovie)
		r.Delete("/{id}", app.DeleteMovie)
	})

	r.Route("/showtimes", func(r chi.Router) {
		r.Get("/", app.GetShowtimes)
		r.Post("/", app.CreateShowtime)
		r.Get("/active", app.GetActiveShowtimes)
		r.Get("/by-date/{date}", app.GetShowtimesByDate)
		r.Get("/by-movie/{name}", app.GetShowtimesByMovie)
		r.Get("/{id}", app.GetShowtime)
		r.Get("/{id}/seats", app.GetAvailableSeats)
		r.Post("/{id}/complete", app.CompleteShowtime)
		r.Put("/{id}", app.UpdateShowtime)
		r.Delete("/{id}", app.DeleteShowtime)
	})

	r.Route("/reservations", func(r chi.Router) {
		r.Get("/", app.GetReservations)
		r.Post("/", app.CreateReservation)
		r.Get("/{id}", app.GetReservation)
		r.Put("/{id}", app.UpdateReservation)
		r.Delete("/{id}", app.CancelReservation)
		r.Post("/{id}/ticket", app.GenerateTicket)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/link", app.CreatePaymentLink)
		r.Post("/webhook", app.PaymentWebhook)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", app.GetUsers)
		r.Post("/", app.CreateUser)
		r.Post("/login", app.Login)
		r.Get("/{id}", app.GetUser)
		r.Put("/{id}", app.UpdateUser)
		r.Delete("/{id}", app.DeleteUser)
		r.Get("/{id}/reservations", app.GetReservationsByUser)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/weekly-tickets", app.GetWeeklyTicketsReport)
		r.Get("/weekly-revenue", app.GetWeeklyRevenueReport)
		r.Get("/annual-revenue", app.GetAnnualRevenueReport)
		r.Get("/monthly-totals", app.GetMonthlyTotalsReport)
		r.Get("/sales-by-movie", app.GetSalesByMovieReport)
		r.Get("/attendance", app.GetAttendanceReport)
	})

	return r
}
