package domain

import (
	"context"
	"fmt"
	"time"
)

// TimeOfDay is a clock time within a calendar day, in minutes from midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses a "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}

	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On anchors the time of day to a calendar date.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

type Screening struct {
	ID          int
	HallID      int
	MovieID     int
	Date        time.Time // calendar day, midnight
	StartTime   TimeOfDay
	BookedSeats []string
	CreatedAt   time.Time

	Movie *Movie
	Hall  *Hall
}

// StartsAt returns the screening's effective start instant.
func (s *Screening) StartsAt() time.Time {
	return s.StartTime.On(s.Date)
}

// EndsAt returns the screening's end instant. The associated movie must be loaded.
func (s *Screening) EndsAt() time.Time {
	return s.StartsAt().Add(time.Duration(s.Movie.Duration) * time.Minute)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that exactly abut do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CheckSchedule validates a candidate slot against the screenings already
// scheduled in the same hall on the same date. The existing screenings must
// have their movies loaded so their intervals can be computed. It returns
// ErrScreeningInPast when the candidate does not start strictly after now, or
// a ScheduleConflictError naming the first overlapping screening.
//
// The caller must evaluate this check and the subsequent insert as one atomic
// unit, otherwise two overlapping candidates can both pass.
func CheckSchedule(candidate *Screening, movieDuration int, existing []*Screening, now time.Time) error {
	start := candidate.StartsAt()
	if !start.After(now) {
		return ErrScreeningInPast
	}

	end := start.Add(time.Duration(movieDuration) * time.Minute)

	for _, other := range existing {
		if Overlaps(start, end, other.StartsAt(), other.EndsAt()) {
			return ScheduleConflictError{ScreeningID: other.ID}
		}
	}

	return nil
}

// SeatKey builds the composite "row-seat" identifier locating a seat within a hall.
func SeatKey(row, seat int) string {
	return fmt.Sprintf("%d-%d", row, seat)
}

type ScreeningRepository interface {
	GetAll(ctx context.Context, from, to time.Time) ([]*Screening, error)
	GetById(ctx context.Context, id int) (*Screening, error)

	// Create runs the schedule conflict check and the insert as a single
	// atomic step, serialized per (hall, date).
	Create(ctx context.Context, screening *Screening, now time.Time) error

	Delete(ctx context.Context, id int) error
	GetBookedSeats(ctx context.Context, id int) ([]string, error)
}
