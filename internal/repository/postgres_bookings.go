package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinohall/booking-system/internal/domain"
	"github.com/shopspring/decimal"
)

// bookingCodeAttempts bounds how many times a colliding booking code is
// regenerated before the whole operation fails.
const bookingCodeAttempts = 3

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create reserves the requested seats against the screening and persists the
// booking in a single transaction. The screening row is locked for the
// duration, so reservation attempts on the same screening serialize while
// other screenings stay uncontended. Any failure rolls the whole attempt
// back; seats are never partially committed.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking, now time.Time) error {
	for attempt := 0; attempt < bookingCodeAttempts; attempt++ {
		code, err := domain.NewBookingCode()
		if err != nil {
			return err
		}

		err = p.createWithCode(ctx, booking, code, now)
		if err != nil {
			if isUniqueViolation(err, "bookings_booking_code_key") {
				continue
			}

			return err
		}

		return nil
	}

	return domain.ErrBookingCodeExhausted
}

func (p *PostgresBookingRepository) createWithCode(
	ctx context.Context,
	booking *domain.Booking,
	code string,
	now time.Time) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT s.date, s.start_time, s.booked_seats,
				h.seat_rows, h.seats_per_row, h.layout,
				h.standard_price::text, h.vip_price::text
			FROM screenings s
			JOIN halls h ON s.hall_id = h.id
			WHERE s.id = $1
			FOR UPDATE OF s
		`

		var (
			date        time.Time
			startTime   pgtype.Time
			bookedSeats []string
			hall        domain.Hall
		)
		var standardPrice, vipPrice string

		err := tx.QueryRow(ctx, query, booking.ScreeningID).Scan(
			&date,
			&startTime,
			&bookedSeats,
			&hall.Rows,
			&hall.SeatsPerRow,
			&hall.Layout,
			&standardPrice,
			&vipPrice,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		startsAt := toTimeOfDay(startTime).On(date)
		if !startsAt.After(now) {
			return domain.ErrScreeningInPast
		}

		hall.StandardPrice, err = decimal.NewFromString(standardPrice)
		if err != nil {
			return err
		}

		hall.VipPrice, err = decimal.NewFromString(vipPrice)
		if err != nil {
			return err
		}

		err = domain.ValidateSeats(&hall, booking.Seats)
		if err != nil {
			return err
		}

		taken := make(map[string]bool, len(bookedSeats))
		for _, key := range bookedSeats {
			taken[key] = true
		}

		for _, seat := range booking.Seats {
			if taken[seat.Key()] {
				return domain.SeatTakenError{SeatKey: seat.Key()}
			}
		}

		booking.ID = uuid.New()
		booking.Code = code
		booking.TotalPrice = domain.TotalPrice(&hall, booking.Seats)

		var email any
		if booking.Email != "" {
			email = booking.Email
		}

		insert := `
			INSERT INTO bookings (id, screening_id, seats, total_price, booking_code, email)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`

		err = tx.QueryRow(
			ctx,
			insert,
			booking.ID,
			booking.ScreeningID,
			booking.Seats,
			booking.TotalPrice.String(),
			booking.Code,
			email).Scan(&booking.CreatedAt)
		if err != nil {
			return err
		}

		for _, seat := range booking.Seats {
			bookedSeats = append(bookedSeats, seat.Key())
		}

		_, err = tx.Exec(
			ctx,
			`UPDATE screenings SET booked_seats = $2 WHERE id = $1`,
			booking.ScreeningID,
			bookedSeats)

		return err
	})
}

func (p *PostgresBookingRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := `
		SELECT
			b.id, b.screening_id, b.seats, b.total_price::text, b.booking_code,
			COALESCE(b.email, ''), b.created_at,
			m.title, h.name, s.date, s.start_time
		FROM bookings b
		JOIN screenings s ON b.screening_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN halls h ON s.hall_id = h.id
		WHERE b.booking_code = $1
	`

	var ticket domain.Ticket
	var totalPrice string
	var startTime pgtype.Time

	err := p.db.QueryRow(ctx, query, code).Scan(
		&ticket.ID,
		&ticket.ScreeningID,
		&ticket.Seats,
		&totalPrice,
		&ticket.Code,
		&ticket.Email,
		&ticket.CreatedAt,
		&ticket.MovieTitle,
		&ticket.HallName,
		&ticket.Date,
		&startTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	ticket.TotalPrice, err = decimal.NewFromString(totalPrice)
	if err != nil {
		return nil, err
	}

	ticket.StartTime = toTimeOfDay(startTime)

	return &ticket, nil
}

var _ domain.BookingRepository = (*PostgresBookingRepository)(nil)
