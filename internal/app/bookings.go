package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/kinohall/booking-system/api"
	"github.com/kinohall/booking-system/internal/domain"
)

func qrCodeUrl(code string) string {
	return fmt.Sprintf("/bookings/%s/qr", code)
}

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateBookingRequest

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

	seats := make([]domain.BookingSeat, len(input.Seats))
	for i, seat := range input.Seats {
		seats[i] = domain.BookingSeat{
			Row:  seat.Row,
			Seat: seat.Seat,
			Type: domain.SeatType(seat.Type),
		}
	}

	booking := &domain.Booking{
		ScreeningID: input.ScreeningId,
		Seats:       seats,
	}
	if input.Email != nil {
		booking.Email = *input.Email
	}

	err = app.bookingRepo.Create(r.Context(), booking, time.Now())
	if err != nil {
		var (
			seatTaken   domain.SeatTakenError
			invalidSeat domain.InvalidSeatError
		)

		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrScreeningInPast):
			app.unprocessableEntityResponse(w, r, fmt.Errorf("screening has already started"))
		case errors.As(err, &seatTaken):
			logger.Info("booking rejected: seat already taken",
				"screening_id", input.ScreeningId, "seat", seatTaken.SeatKey)
			app.editConflictResponse(w, r, seatTaken)
		case errors.As(err, &invalidSeat):
			app.unprocessableEntityResponse(w, r, invalidSeat)
		default:
			logger.Error("failed to create booking", "screening_id", input.ScreeningId, "error", err)
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("booking created",
		"booking_code", booking.Code, "screening_id", booking.ScreeningID, "seats", len(booking.Seats))

	app.invalidateBookedSeatsCache(r.Context(), booking.ScreeningID)

	if booking.Email != "" {
		go func(ctx context.Context) {
			gLogger := app.contextGetLogger(r.WithContext(ctx))

			defer func() {
				if err := recover(); err != nil {
					gLogger.Error("panic occurred during sending ticket mail", "panic", err)
				}
			}()

			ticket, err := app.bookingRepo.GetByCode(ctx, booking.Code)
			if err != nil {
				gLogger.Error("failed to load ticket for confirmation email", "error", err)
				return
			}

			seatKeys := make([]string, len(ticket.Seats))
			for i, seat := range ticket.Seats {
				seatKeys[i] = seat.Key()
			}

			data := map[string]any{
				"bookingCode": ticket.Code,
				"movieTitle":  ticket.MovieTitle,
				"hallName":    ticket.HallName,
				"date":        ticket.Date.Format("2006-01-02"),
				"startTime":   ticket.StartTime.String(),
				"seats":       seatKeys,
				"totalPrice":  ticket.TotalPrice.String(),
				"qrUrl":       qrCodeUrl(ticket.Code),
			}

			err = app.mailer.Send(booking.Email, "booking_ticket.tmpl", data)
			if err != nil {
				gLogger.Error("failed to send ticket email", "error", err)
			} else {
				gLogger.Info("ticket email sent successfully")
			}
		}(context.WithoutCancel(r.Context()))
	}

	resp := api.BookingResponse{
		Id:          booking.ID,
		BookingCode: booking.Code,
		ScreeningId: booking.ScreeningID,
		Seats:       input.Seats,
		TotalPrice:  booking.TotalPrice,
		QrCodeUrl:   qrCodeUrl(booking.Code),
		CreatedAt:   booking.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ticket, err := app.bookingRepo.GetByCode(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiTicket(ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetBookingQR renders the ticket as a QR code PNG so it can be scanned at
// the hall entrance.
func (app *Application) GetBookingQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ticket, err := app.bookingRepo.GetByCode(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	payload, err := json.Marshal(toApiTicket(ticket).Ticket)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func toApiTicket(ticket *domain.Ticket) api.TicketResponse {
	seats := make([]api.Seat, len(ticket.Seats))
	for i, seat := range ticket.Seats {
		seats[i] = api.Seat{
			Row:  seat.Row,
			Seat: seat.Seat,
			Type: string(seat.Type),
		}
	}

	return api.TicketResponse{
		Ticket: api.Ticket{
			BookingCode: ticket.Code,
			MovieTitle:  ticket.MovieTitle,
			HallName:    ticket.HallName,
			Date:        ticket.Date.Format("2006-01-02"),
			StartTime:   ticket.StartTime.String(),
			Seats:       seats,
			TotalPrice:  ticket.TotalPrice,
			QrCodeUrl:   qrCodeUrl(ticket.Code),
			CreatedAt:   ticket.CreatedAt,
		},
	}
}
