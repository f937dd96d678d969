package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

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
		"TRUNCATE bookings, screenings, movies, halls RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	require.NoError(t, app.Redis.FlushAll(context.Background()).Err())
}

func seedHall(t testing.TB, app *TestApp, name string, rows, seatsPerRow int, layout [][]string, standardPrice, vipPrice string) int {
	layoutJSON, err := json.Marshal(layout)
	require.NoError(t, err)

	var id int
	err = app.DB.QueryRow(context.Background(), `
		INSERT INTO halls (name, seat_rows, seats_per_row, layout, standard_price, vip_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		name, rows, seatsPerRow, layoutJSON, standardPrice, vipPrice).Scan(&id)
	require.NoError(t, err)

	return id
}

func seedMovie(t testing.TB, app *TestApp, title string, duration int) int {
	var id int
	err := app.DB.QueryRow(context.Background(), `
		INSERT INTO movies (title, synopsis, origin, duration)
		VALUES ($1, 'synopsis', 'USA', $2)
		RETURNING id`,
		title, duration).Scan(&id)
	require.NoError(t, err)

	return id
}

func seedScreening(t testing.TB, app *TestApp, hallID, movieID int, date, startTime string) int {
	var id int
	err := app.DB.QueryRow(context.Background(), `
		INSERT INTO screenings (hall_id, movie_id, date, start_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		hallID, movieID, date, startTime).Scan(&id)
	require.NoError(t, err)

	return id
}

// standardLayout builds an all-standard grid, optionally promoting some seats
// to vip via "row-seat" keys.
func standardLayout(rows, seatsPerRow int, vipSeats ...string) [][]string {
	vip := make(map[string]bool, len(vipSeats))
	for _, key := range vipSeats {
		vip[key] = true
	}

	layout := make([][]string, rows)
	for r := range layout {
		layout[r] = make([]string, seatsPerRow)
		for c := range layout[r] {
			if vip[seatKey(r+1, c+1)] {
				layout[r][c] = "vip"
			} else {
				layout[r][c] = "standard"
			}
		}
	}

	return layout
}

func seatKey(row, seat int) string {
	return fmt.Sprintf("%d-%d", row, seat)
}
