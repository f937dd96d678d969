package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kinohall/booking-system/api"
	"github.com/kinohall/booking-system/internal/domain"
)

const (
	// screeningListWindow is the default range returned when no date filter is given.
	screeningListWindow = 7 * 24 * time.Hour

	bookedSeatsCacheTTL = 30 * time.Second
)

func bookedSeatsKey(screeningID int) string {
	return fmt.Sprintf("booked_seats:%d", screeningID)
}

func (app *Application) GetScreenings(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.Add(screeningListWindow)

	if date := r.URL.Query().Get("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid date parameter, expected YYYY-MM-DD"))
			return
		}

		from, to = day, day
	}

	screenings, err := app.screeningRepo.GetAll(r.Context(), from, to)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiScreenings := make([]api.Screening, len(screenings))
	for i, screening := range screenings {
		apiScreenings[i] = toApiScreening(screening)
	}

	resp := api.ScreeningListResponse{
		Screenings: apiScreenings,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetScreening(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.ScreeningResponse{
		Screening: toApiScreening(screening),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateScreening(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateScreeningRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	startTime, err := domain.ParseTimeOfDay(input.StartTime)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screening := &domain.Screening{
		HallID:    input.HallId,
		MovieID:   input.MovieId,
		Date:      date,
		StartTime: startTime,
	}

	err = app.screeningRepo.Create(r.Context(), screening, time.Now())
	if err != nil {
		var conflict domain.ScheduleConflictError

		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrScreeningInPast):
			app.unprocessableEntityResponse(w, r, fmt.Errorf("cannot schedule a screening in the past"))
		case errors.As(err, &conflict):
			logger.Warn("screening creation rejected: overlapping slot",
				"hall_id", input.HallId, "date", input.Date, "conflicting_screening_id", conflict.ScreeningID)
			app.editConflictResponse(w, r, conflict)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	screening, err = app.screeningRepo.GetById(r.Context(), screening.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ScreeningResponse{
		Screening: toApiScreening(screening),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteScreening(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.screeningRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrScreeningHasBookings):
			logger.Warn("screening deletion rejected: bookings exist", "screening_id", id)
			app.editConflictResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.invalidateBookedSeatsCache(r.Context(), id)

	w.WriteHeader(http.StatusNoContent)
}

// GetScreeningSeats returns the screening's current booked-seat set for seat
// map rendering. Reads go through a short-lived Redis cache; the cache is
// advisory only and the booking commit never depends on it.
func (app *Application) GetScreeningSeats(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var bookedSeats []string

	cached, err := app.redis.Get(r.Context(), bookedSeatsKey(id)).Result()
	if err == nil {
		err = json.Unmarshal([]byte(cached), &bookedSeats)
	}

	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("booked seats cache read failed", "screening_id", id, "error", err)
		}

		bookedSeats, err = app.screeningRepo.GetBookedSeats(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrRecordNotFound):
				app.notFoundResponse(w, r)
			default:
				app.serverErrorResponse(w, r, err)
			}

			return
		}

		app.cacheBookedSeats(r.Context(), id, bookedSeats, logger)
	}

	resp := api.ScreeningSeatsResponse{
		ScreeningId: id,
		BookedSeats: bookedSeats,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) cacheBookedSeats(ctx context.Context, screeningID int, seats []string, logger *slog.Logger) {
	payload, err := json.Marshal(seats)
	if err != nil {
		logger.Warn("failed to marshal booked seats for cache", "screening_id", screeningID, "error", err)
		return
	}

	err = app.redis.Set(ctx, bookedSeatsKey(screeningID), payload, bookedSeatsCacheTTL).Err()
	if err != nil {
		logger.Warn("booked seats cache write failed", "screening_id", screeningID, "error", err)
	}
}

func (app *Application) invalidateBookedSeatsCache(ctx context.Context, screeningID int) {
	err := app.redis.Del(ctx, bookedSeatsKey(screeningID)).Err()
	if err != nil {
		app.logger.Warn("booked seats cache invalidation failed", "screening_id", screeningID, "error", err)
	}
}

func toApiScreening(screening *domain.Screening) api.Screening {
	bookedSeats := screening.BookedSeats
	if bookedSeats == nil {
		bookedSeats = []string{}
	}

	return api.Screening{
		Id:          screening.ID,
		Date:        screening.Date.Format("2006-01-02"),
		StartTime:   screening.StartTime.String(),
		EndTime:     screening.EndsAt().Format("15:04"),
		Movie:       toApiMovie(screening.Movie),
		Hall:        api.HallSummary{Id: screening.Hall.ID, Name: screening.Hall.Name},
		BookedSeats: bookedSeats,
		CreatedAt:   screening.CreatedAt,
	}
}
