package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinohall/booking-system/internal/domain"
	"github.com/shopspring/decimal"
)

type PostgresScreeningRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScreeningRepository(db *pgxpool.Pool) *PostgresScreeningRepository {
	return &PostgresScreeningRepository{
		db: db,
	}
}

const microsPerMinute = int64(time.Minute / time.Microsecond)

func toTimeOfDay(t pgtype.Time) domain.TimeOfDay {
	return domain.TimeOfDay(t.Microseconds / microsPerMinute)
}

func (p *PostgresScreeningRepository) GetAll(ctx context.Context, from, to time.Time) ([]*domain.Screening, error) {
	query := `
		SELECT
			s.id, s.hall_id, s.movie_id, s.date, s.start_time, s.booked_seats, s.created_at,
			m.id, m.title, m.synopsis, m.origin, m.poster_url, m.duration, m.created_at,
			h.id, h.name, h.seat_rows, h.seats_per_row,
			h.standard_price::text, h.vip_price::text
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		JOIN halls h ON s.hall_id = h.id
		WHERE s.date BETWEEN $1 AND $2
		ORDER BY s.date, s.start_time
	`

	rows, err := p.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	screenings := make([]*domain.Screening, 0)

	for rows.Next() {
		screening, err := scanScreening(rows)
		if err != nil {
			return nil, err
		}

		screenings = append(screenings, screening)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return screenings, nil
}

func (p *PostgresScreeningRepository) GetById(ctx context.Context, id int) (*domain.Screening, error) {
	query := `
		SELECT
			s.id, s.hall_id, s.movie_id, s.date, s.start_time, s.booked_seats, s.created_at,
			m.id, m.title, m.synopsis, m.origin, m.poster_url, m.duration, m.created_at,
			h.id, h.name, h.seat_rows, h.seats_per_row,
			h.standard_price::text, h.vip_price::text
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		JOIN halls h ON s.hall_id = h.id
		WHERE s.id = $1
	`

	rows, err := p.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}

		return nil, domain.ErrRecordNotFound
	}

	return scanScreening(rows)
}

// Create validates the candidate slot against the hall's schedule for that
// date and inserts it, all in one transaction. Concurrent creations for the
// same (hall, date) serialize on an advisory lock, so two admins cannot both
// pass the overlap check for conflicting slots.
func (p *PostgresScreeningRepository) Create(ctx context.Context, screening *domain.Screening, now time.Time) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		lockKey := fmt.Sprintf("screenings:%d:%s", screening.HallID, screening.Date.Format("2006-01-02"))

		_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey)
		if err != nil {
			return err
		}

		var hallExists bool
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM halls WHERE id = $1)`, screening.HallID).Scan(&hallExists)
		if err != nil {
			return err
		}
		if !hallExists {
			return domain.ErrRecordNotFound
		}

		var movieDuration int
		err = tx.QueryRow(ctx, `SELECT duration FROM movies WHERE id = $1`, screening.MovieID).Scan(&movieDuration)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		existing, err := screeningsForHallAndDate(ctx, tx, screening.HallID, screening.Date)
		if err != nil {
			return err
		}

		err = domain.CheckSchedule(screening, movieDuration, existing, now)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO screenings (hall_id, movie_id, date, start_time, booked_seats)
			VALUES ($1, $2, $3, $4, '[]')
			RETURNING id, created_at
		`

		return tx.QueryRow(
			ctx,
			query,
			screening.HallID,
			screening.MovieID,
			screening.Date,
			screening.StartTime.String()).Scan(&screening.ID, &screening.CreatedAt)
	})
}

// Delete removes a screening. Screenings that already have bookings are kept;
// cancelling them is a refund question the booking flow does not answer.
func (p *PostgresScreeningRepository) Delete(ctx context.Context, id int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		// Bookings lock the screening row, so taking the same lock here
		// makes any in-flight booking commit or abort before the check below.
		var screeningID int

		err := tx.QueryRow(ctx, `SELECT id FROM screenings WHERE id = $1 FOR UPDATE`, id).Scan(&screeningID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		var hasBookings bool

		err = tx.QueryRow(
			ctx,
			`SELECT EXISTS (SELECT 1 FROM bookings WHERE screening_id = $1)`,
			id).Scan(&hasBookings)
		if err != nil {
			return err
		}

		if hasBookings {
			return domain.ErrScreeningHasBookings
		}

		_, err = tx.Exec(ctx, `DELETE FROM screenings WHERE id = $1`, id)

		return err
	})
}

func (p *PostgresScreeningRepository) GetBookedSeats(ctx context.Context, id int) ([]string, error) {
	var seats []string

	err := p.db.QueryRow(ctx, `SELECT booked_seats FROM screenings WHERE id = $1`, id).Scan(&seats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return seats, nil
}

// screeningsForHallAndDate loads the screenings sharing the candidate's hall
// and date, with the movie durations needed to compute their intervals.
func screeningsForHallAndDate(ctx context.Context, tx pgx.Tx, hallID int, date time.Time) ([]*domain.Screening, error) {
	query := `
		SELECT s.id, s.hall_id, s.movie_id, s.date, s.start_time, m.duration
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.hall_id = $1 AND s.date = $2
	`

	rows, err := tx.Query(ctx, query, hallID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	screenings := make([]*domain.Screening, 0)

	for rows.Next() {
		var screening domain.Screening
		var startTime pgtype.Time
		var movie domain.Movie

		err = rows.Scan(
			&screening.ID,
			&screening.HallID,
			&screening.MovieID,
			&screening.Date,
			&startTime,
			&movie.Duration,
		)
		if err != nil {
			return nil, err
		}

		screening.StartTime = toTimeOfDay(startTime)
		screening.Movie = &movie

		screenings = append(screenings, &screening)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return screenings, nil
}

func scanScreening(rows pgx.Rows) (*domain.Screening, error) {
	var screening domain.Screening
	var startTime pgtype.Time
	var movie domain.Movie
	var hall domain.Hall
	var standardPrice, vipPrice string

	err := rows.Scan(
		&screening.ID,
		&screening.HallID,
		&screening.MovieID,
		&screening.Date,
		&startTime,
		&screening.BookedSeats,
		&screening.CreatedAt,
		&movie.ID,
		&movie.Title,
		&movie.Synopsis,
		&movie.Origin,
		&movie.PosterUrl,
		&movie.Duration,
		&movie.CreatedAt,
		&hall.ID,
		&hall.Name,
		&hall.Rows,
		&hall.SeatsPerRow,
		&standardPrice,
		&vipPrice,
	)
	if err != nil {
		return nil, err
	}

	hall.StandardPrice, err = decimal.NewFromString(standardPrice)
	if err != nil {
		return nil, err
	}

	hall.VipPrice, err = decimal.NewFromString(vipPrice)
	if err != nil {
		return nil, err
	}

	screening.StartTime = toTimeOfDay(startTime)
	screening.Movie = &movie
	screening.Hall = &hall

	return &screening, nil
}

var _ domain.ScreeningRepository = (*PostgresScreeningRepository)(nil)
