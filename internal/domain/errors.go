package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrMovieAlreadyExists   = errors.New("movie already exists with this title")
	ErrScreeningInPast      = errors.New("screening start time is in the past")
	ErrScreeningHasBookings = errors.New("screening has existing bookings")
	ErrBookingCodeExhausted = errors.New("could not generate a unique booking code")
)

// SeatTakenError reports the first requested seat that is already present in a
// screening's booked seat set. The whole reservation fails; no seats are committed.
type SeatTakenError struct {
	SeatKey string
}

func (e SeatTakenError) Error() string {
	return fmt.Sprintf("seat %s is already booked", e.SeatKey)
}

// ScheduleConflictError identifies the existing screening whose time interval
// overlaps the candidate slot in the same hall on the same date.
type ScheduleConflictError struct {
	ScreeningID int
}

func (e ScheduleConflictError) Error() string {
	return fmt.Sprintf("time slot overlaps screening %d in the same hall", e.ScreeningID)
}

// InvalidSeatError reports a requested seat that does not fit the hall's layout.
type InvalidSeatError struct {
	SeatKey string
	Reason  string
}

func (e InvalidSeatError) Error() string {
	return fmt.Sprintf("seat %s: %s", e.SeatKey, e.Reason)
}
