package domain

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Booking struct {
	ID          uuid.UUID
	ScreeningID int
	Seats       []BookingSeat
	TotalPrice  decimal.Decimal
	Code        string
	Email       string
	CreatedAt   time.Time
}

type BookingSeat struct {
	Row  int      `json:"row"`
	Seat int      `json:"seat"`
	Type SeatType `json:"type"`
}

func (s BookingSeat) Key() string {
	return SeatKey(s.Row, s.Seat)
}

// Ticket is a booking joined with the screening details needed to present it.
type Ticket struct {
	Booking
	MovieTitle string
	HallName   string
	Date       time.Time
	StartTime  TimeOfDay
}

// ValidateSeats checks a reservation request against the hall's layout: every
// seat must lie inside the configured grid, must be bookable, the requested
// type must match the configured type, and no seat may appear twice in the
// request.
func ValidateSeats(hall *Hall, seats []BookingSeat) error {
	if len(seats) == 0 {
		return InvalidSeatError{Reason: "no seats requested"}
	}

	seen := make(map[string]bool, len(seats))

	for _, seat := range seats {
		key := seat.Key()

		if seen[key] {
			return InvalidSeatError{SeatKey: key, Reason: "seat requested twice"}
		}
		seen[key] = true

		if !seat.Type.Bookable() {
			return InvalidSeatError{SeatKey: key, Reason: "seat type is not bookable"}
		}

		configured, ok := hall.SeatTypeAt(seat.Row, seat.Seat)
		if !ok {
			return InvalidSeatError{SeatKey: key, Reason: "seat is outside the hall layout"}
		}

		if !configured.Bookable() {
			return InvalidSeatError{SeatKey: key, Reason: "seat is not available for booking"}
		}

		if configured != seat.Type {
			return InvalidSeatError{SeatKey: key, Reason: "seat type does not match the hall layout"}
		}
	}

	return nil
}

// TotalPrice sums the hall's current per-type prices over the requested seats.
func TotalPrice(hall *Hall, seats []BookingSeat) decimal.Decimal {
	total := decimal.Zero

	for _, seat := range seats {
		total = total.Add(hall.Price(seat.Type))
	}

	return total
}

const (
	bookingCodePrefix   = "BK"
	bookingCodeLength   = 6
	bookingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewBookingCode generates a human-presentable booking code such as "BK7A2QX9".
// Codes are not guaranteed unique; the store detects collisions at insert time
// and the caller regenerates.
func NewBookingCode() (string, error) {
	code := make([]byte, 0, len(bookingCodePrefix)+bookingCodeLength)
	code = append(code, bookingCodePrefix...)

	max := big.NewInt(int64(len(bookingCodeAlphabet)))

	for i := 0; i < bookingCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}

		code = append(code, bookingCodeAlphabet[n.Int64()])
	}

	return string(code), nil
}

type BookingRepository interface {
	// Create reserves the booking's seats against its screening and persists
	// the booking as one atomic step, serialized per screening. On any
	// failure no stored state changes.
	Create(ctx context.Context, booking *Booking, now time.Time) error

	GetByCode(ctx context.Context, code string) (*Ticket, error)
}
