package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ReservationsTestSuite struct {
	BaseSuite
}

func TestReservationsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(ReservationsTestSuite))
}

func reservationBody(userID, showtimeID int, seats ...string) string {
	quoted := make([]string, len(seats))
	for i, seat := range seats {
		quoted[i] = fmt.Sprintf("%q", seat)
	}

	return fmt.Sprintf(`{
		"userId": %d,
		"showtimeId": %d,
		"seatCount": %d,
		"seats": [%s],
		"date": %q,
		"price": "10.00"
	}`, userID, showtimeID, len(seats), strings.Join(quoted, ","), time.Now().Add(48*time.Hour).Format(time.RFC3339))
}

func (s *ReservationsTestSuite) TestReservationLifecycle() {
	var movieID, showtimeID, userID int

	scenarios := []Scenario{
		{
			Name:   "creates a reservation and claims the seats",
			Method: http.MethodPost,
			ExpectedStatus: http.StatusCreated,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				truncateTables(t, app)
				movieID = seedMovie(t, app, "The Matrix")
				showtimeID = seedShowtime(t, app, movieID, 50)
				userID = seedUser(t, app, "lifecycle_user")
			},
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				seats := occupiedSeats(t, app, showtimeID)
				if len(seats) != 2 {
					t.Errorf("occupied seats = %v, want two seats", seats)
				}
			},
		},
		{
			Name:           "rejects overlapping seats with the conflicting set",
			Method:         http.MethodPost,
			ExpectedStatus: http.StatusBadRequest,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var body struct {
					ConflictingSeats []string `json:"conflictingSeats"`
				}
				if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode conflict response: %v", err)
				}
				if len(body.ConflictingSeats) != 1 || body.ConflictingSeats[0] != "A2" {
					t.Errorf("conflictingSeats = %v, want [A2]", body.ConflictingSeats)
				}
			},
		},
	}

	for i, scenario := range scenarios {
		// The URL and body depend on seeded IDs, so they are resolved late.
		switch i {
		case 0:
			scenario.BeforeTestFunc(s.T(), s.app)
			scenario.BeforeTestFunc = nil
			scenario.URL = "/reservations"
			scenario.Body = strings.NewReader(reservationBody(userID, showtimeID, "A1", "A2"))
		case 1:
			scenario.URL = "/reservations"
			scenario.Body = strings.NewReader(reservationBody(userID, showtimeID, "A2", "A3"))
		}

		scenario.Run(s.T(), s.app)
	}
}

func (s *ReservationsTestSuite) TestCancellationReleasesSeats() {
	truncateTables(s.T(), s.app)
	movieID := seedMovie(s.T(), s.app, "Inception")
	showtimeID := seedShowtime(s.T(), s.app, movieID, 50)
	userID := seedUser(s.T(), s.app, "cancel_user")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reservations",
		strings.NewReader(reservationBody(userID, showtimeID, "C1")))
	req.Header.Set("Content-Type", "application/json")
	s.app.App.Routes().ServeHTTP(rec, req)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var created struct {
		Id int `json:"id"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&created))
	s.Equal([]string{"C1"}, occupiedSeats(s.T(), s.app, showtimeID))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/reservations/%d", created.Id), nil)
	s.app.App.Routes().ServeHTTP(rec, req)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	s.Empty(occupiedSeats(s.T(), s.app, showtimeID))
}

// TestConcurrentSeatReservation races several requests for the same seats.
// Exactly one must win; the rest must see a seat conflict, and the occupied
// set must contain each seat exactly once.
func (s *ReservationsTestSuite) TestConcurrentSeatReservation() {
	truncateTables(s.T(), s.app)
	movieID := seedMovie(s.T(), s.app, "Heat")
	showtimeID := seedShowtime(s.T(), s.app, movieID, 20)

	const workers = 8

	userIDs := make([]int, workers)
	for i := range workers {
		userIDs[i] = seedUser(s.T(), s.app, fmt.Sprintf("race_user_%d", i))
	}

	statuses := make([]int, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/reservations",
				strings.NewReader(reservationBody(userIDs[i], showtimeID, "D4", "D5")))
			req.Header.Set("Content-Type", "application/json")

			s.app.App.Routes().ServeHTTP(rec, req)
			statuses[i] = rec.Code
		}()
	}
	wg.Wait()

	var created, conflicted int
	for _, status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			conflicted++
		default:
			s.T().Errorf("unexpected status %d", status)
		}
	}

	s.Equal(1, created, "exactly one request must win the seats")
	s.Equal(workers-1, conflicted)

	s.ElementsMatch([]string{"D4", "D5"}, occupiedSeats(s.T(), s.app, showtimeID))

	var count int
	err := s.app.DB.QueryRow(context.Background(),
		`SELECT count(*) FROM reservations WHERE showtime_id = $1`, showtimeID).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}
