package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kinohall/booking-system/api"
	"github.com/kinohall/booking-system/internal/domain"
)

func (app *Application) GetHalls(w http.ResponseWriter, r *http.Request) {
	halls, err := app.hallRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiHalls := make([]api.Hall, len(halls))
	for i, hall := range halls {
		apiHalls[i] = toApiHall(hall)
	}

	resp := api.HallListResponse{
		Halls: apiHalls,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UpdateHall applies a partial hall update: a new price table, a new seat
// layout, or both. Existing bookings are never repriced.
func (app *Application) UpdateHall(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateHallRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if input.StandardPrice == nil && input.VipPrice == nil && input.Layout == nil &&
		input.Rows == nil && input.SeatsPerRow == nil {
		app.badRequestResponse(w, r, fmt.Errorf("no updatable fields in request"))
		return
	}

	hall, err := app.hallRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if input.StandardPrice != nil || input.VipPrice != nil {
		standardPrice := hall.StandardPrice
		vipPrice := hall.VipPrice

		if input.StandardPrice != nil {
			standardPrice = *input.StandardPrice
		}
		if input.VipPrice != nil {
			vipPrice = *input.VipPrice
		}

		err = app.hallRepo.UpdatePrices(r.Context(), id, standardPrice, vipPrice)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		logger.Info("hall prices updated", "hall_id", id,
			"standard_price", standardPrice.String(), "vip_price", vipPrice.String())
	}

	if input.Layout != nil || input.Rows != nil || input.SeatsPerRow != nil {
		rows, seatsPerRow, layout, err := resolveLayoutUpdate(hall, input)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		err = app.hallRepo.UpdateLayout(r.Context(), id, rows, seatsPerRow, layout)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		logger.Info("hall layout updated", "hall_id", id, "rows", rows, "seats_per_row", seatsPerRow)
	}

	hall, err = app.hallRepo.GetById(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.HallResponse{
		Hall: toApiHall(hall),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// resolveLayoutUpdate merges the requested grid change with the hall's current
// dimensions. An explicit layout must be rectangular and must agree with the
// requested dimensions; dimensions alone reset the grid to all-standard.
func resolveLayoutUpdate(hall *domain.Hall, input api.UpdateHallRequest) (int, int, [][]domain.SeatType, error) {
	rows := hall.Rows
	seatsPerRow := hall.SeatsPerRow

	if input.Rows != nil {
		rows = *input.Rows
	}
	if input.SeatsPerRow != nil {
		seatsPerRow = *input.SeatsPerRow
	}

	if input.Layout == nil {
		return rows, seatsPerRow, domain.DefaultLayout(rows, seatsPerRow), nil
	}

	if input.Rows == nil {
		rows = len(input.Layout)
	}
	if input.SeatsPerRow == nil {
		seatsPerRow = len(input.Layout[0])
	}

	if len(input.Layout) != rows {
		return 0, 0, nil, fmt.Errorf("layout has %d rows, expected %d", len(input.Layout), rows)
	}

	layout := make([][]domain.SeatType, rows)

	for i, row := range input.Layout {
		if len(row) != seatsPerRow {
			return 0, 0, nil, fmt.Errorf("layout row %d has %d seats, expected %d", i+1, len(row), seatsPerRow)
		}

		layout[i] = make([]domain.SeatType, seatsPerRow)
		for j, seatType := range row {
			layout[i][j] = domain.SeatType(seatType)
		}
	}

	return rows, seatsPerRow, layout, nil
}

func toApiHall(hall *domain.Hall) api.Hall {
	layout := make([][]string, len(hall.Layout))

	for i, row := range hall.Layout {
		layout[i] = make([]string, len(row))
		for j, seatType := range row {
			layout[i][j] = string(seatType)
		}
	}

	return api.Hall{
		Id:            hall.ID,
		Name:          hall.Name,
		Rows:          hall.Rows,
		SeatsPerRow:   hall.SeatsPerRow,
		Layout:        layout,
		StandardPrice: hall.StandardPrice,
		VipPrice:      hall.VipPrice,
		UpdatedAt:     hall.UpdatedAt,
	}
}
