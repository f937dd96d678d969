// Package api holds the wire representations of the HTTP surface. The core
// treats these as an external contract owned by the calling layer.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Movie struct {
	Id        int       `json:"id"`
	Title     string    `json:"title"`
	Synopsis  string    `json:"synopsis"`
	Origin    string    `json:"origin"`
	PosterUrl string    `json:"posterUrl,omitempty"`
	Duration  int       `json:"duration"`
	CreatedAt time.Time `json:"createdAt"`
}

type MovieListResponse struct {
	Movies []Movie `json:"movies"`
}

type MovieResponse struct {
	Movie Movie `json:"movie"`
}

type CreateMovieRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	Synopsis  string `json:"synopsis" validate:"required"`
	Origin    string `json:"origin" validate:"required"`
	PosterUrl string `json:"posterUrl" validate:"omitempty,url"`
	Duration  int    `json:"duration" validate:"required,min=1"`
}

type UpdateMovieRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=255"`
	Synopsis  *string `json:"synopsis"`
	Origin    *string `json:"origin"`
	PosterUrl *string `json:"posterUrl" validate:"omitempty,url"`
	Duration  *int    `json:"duration" validate:"omitempty,min=1"`
}

type Hall struct {
	Id            int             `json:"id"`
	Name          string          `json:"name"`
	Rows          int             `json:"rows"`
	SeatsPerRow   int             `json:"seatsPerRow"`
	Layout        [][]string      `json:"layout"`
	StandardPrice decimal.Decimal `json:"standardPrice"`
	VipPrice      decimal.Decimal `json:"vipPrice"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type HallListResponse struct {
	Halls []Hall `json:"halls"`
}

type HallResponse struct {
	Hall Hall `json:"hall"`
}

// UpdateHallRequest carries a partial hall update: a new price table, a new
// seat layout, or both. Changes are not retroactive to existing bookings.
type UpdateHallRequest struct {
	StandardPrice *decimal.Decimal `json:"standardPrice" validate:"omitempty,price"`
	VipPrice      *decimal.Decimal `json:"vipPrice" validate:"omitempty,price"`
	Rows          *int             `json:"rows" validate:"omitempty,min=1,max=100"`
	SeatsPerRow   *int             `json:"seatsPerRow" validate:"omitempty,min=1,max=100"`
	Layout        [][]string       `json:"layout" validate:"omitempty,min=1,dive,min=1,dive,seat_type"`
}

type HallSummary struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type Screening struct {
	Id          int         `json:"id"`
	Date        string      `json:"date"`
	StartTime   string      `json:"startTime"`
	EndTime     string      `json:"endTime"`
	Movie       Movie       `json:"movie"`
	Hall        HallSummary `json:"hall"`
	BookedSeats []string    `json:"bookedSeats"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type ScreeningListResponse struct {
	Screenings []Screening `json:"screenings"`
}

type ScreeningResponse struct {
	Screening Screening `json:"screening"`
}

type CreateScreeningRequest struct {
	MovieId   int    `json:"movieId" validate:"required,min=1"`
	HallId    int    `json:"hallId" validate:"required,min=1"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
}

type ScreeningSeatsResponse struct {
	ScreeningId int      `json:"screeningId"`
	BookedSeats []string `json:"bookedSeats"`
}

type Seat struct {
	Row  int    `json:"row" validate:"required,min=1"`
	Seat int    `json:"seat" validate:"required,min=1"`
	Type string `json:"type" validate:"required,oneof=standard vip"`
}

type CreateBookingRequest struct {
	ScreeningId int     `json:"screeningId" validate:"required,min=1"`
	Seats       []Seat  `json:"seats" validate:"required,min=1,dive"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

type BookingResponse struct {
	Id          uuid.UUID       `json:"id"`
	BookingCode string          `json:"bookingCode"`
	ScreeningId int             `json:"screeningId"`
	Seats       []Seat          `json:"seats"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	QrCodeUrl   string          `json:"qrCodeUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Ticket struct {
	BookingCode string          `json:"bookingCode"`
	MovieTitle  string          `json:"movieTitle"`
	HallName    string          `json:"hallName"`
	Date        string          `json:"date"`
	StartTime   string          `json:"startTime"`
	Seats       []Seat          `json:"seats"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	QrCodeUrl   string          `json:"qrCodeUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type TicketResponse struct {
	Ticket Ticket `json:"ticket"`
}
