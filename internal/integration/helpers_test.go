package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"updatedAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func truncateTables(t testing.TB, app *TestApp) {
	_, err := app.DB.Exec(context.Background(),
		`TRUNCATE reservations, showtimes, movies, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func seedMovie(t testing.TB, app *TestApp, title string) int {
	var id int
	err := app.DB.QueryRow(context.Background(), `
		INSERT INTO movies (title, description, release_date)
		VALUES ($1, 'Seeded movie for tests', '2026-01-01')
		RETURNING id`, title).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedShowtime(t testing.TB, app *TestApp, movieID, capacity int) int {
	var id int
	err := app.DB.QueryRow(context.Background(), `
		INSERT INTO showtimes (movie_id, room, starts_at, capacity, price)
		VALUES ($1, 'Sala 1', $2, $3, 10.00)
		RETURNING id`, movieID, time.Now().Add(48*time.Hour), capacity).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedUser(t testing.TB, app *TestApp, username string) int {
	var id int
	err := app.DB.QueryRow(context.Background(), `
		INSERT INTO users (first_name, last_name, username, email, password_hash)
		VALUES ('Test', 'User', $1, $1 || '@example.com', '\x00')
		RETURNING id`, username).Scan(&id)
	require.NoError(t, err)
	return id
}

func occupiedSeats(t testing.TB, app *TestApp, showtimeID int) []string {
	var seats []string
	err := app.DB.QueryRow(context.Background(),
		`SELECT occupied_seats FROM showtimes WHERE id = $1`, showtimeID).Scan(&seats)
	require.NoError(t, err)
	return seats
}
