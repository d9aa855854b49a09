package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/api"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				app.logError(r, fmt.Errorf("%v", err))

				resp := api.ErrorResponse{
					Message:   ErrInternalServer,
					RequestId: middleware.GetReqID(r.Context()),
					Timestamp: time.Now(),
				}

				app.writeJSON(w, http.StatusInternalServerError, resp, http.Header{
					"Connection": []string{"close"},
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
