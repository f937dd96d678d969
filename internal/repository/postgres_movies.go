package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinohall/booking-system/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	query := `
		SELECT id, title, synopsis, origin, poster_url, duration, created_at
		FROM movies
		ORDER BY title
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]*domain.Movie, 0)

	for rows.Next() {
		var movie domain.Movie

		err = rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Synopsis,
			&movie.Origin,
			&movie.PosterUrl,
			&movie.Duration,
			&movie.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `
		SELECT id, title, synopsis, origin, poster_url, duration, created_at
		FROM movies
		WHERE id = $1
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Synopsis,
		&movie.Origin,
		&movie.PosterUrl,
		&movie.Duration,
		&movie.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `
		INSERT INTO movies (title, synopsis, origin, poster_url, duration)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		movie.Title,
		movie.Synopsis,
		movie.Origin,
		movie.PosterUrl,
		movie.Duration).Scan(&movie.ID, &movie.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "movies_title_key") {
			return domain.ErrMovieAlreadyExists
		}

		return err
	}

	return nil
}

func (p *PostgresMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var oldDuration int

		err := tx.QueryRow(ctx, `SELECT duration FROM movies WHERE id = $1 FOR UPDATE`, movie.ID).Scan(&oldDuration)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		query := `
			UPDATE movies
			SET title = $2, synopsis = $3, origin = $4, poster_url = $5, duration = $6
			WHERE id = $1
		`

		_, err = tx.Exec(
			ctx,
			query,
			movie.ID,
			movie.Title,
			movie.Synopsis,
			movie.Origin,
			movie.PosterUrl,
			movie.Duration)

		if err != nil {
			if isUniqueViolation(err, "movies_title_key") {
				return domain.ErrMovieAlreadyExists
			}

			return err
		}

		if movie.Duration > oldDuration {
			return checkFutureScreenings(ctx, tx, movie.ID, movie.Duration)
		}

		return nil
	})
}

// checkFutureScreenings verifies that the movie's upcoming screenings still fit
// their hall schedules with the new runtime. Screenings occupy the half-open
// slot [start, start+duration), so a screening that now runs into the next
// slot's start time is a conflict.
func checkFutureScreenings(ctx context.Context, tx pgx.Tx, movieID, duration int) error {
	query := `
		SELECT s2.id
		FROM screenings s1
		JOIN screenings s2
			ON s2.hall_id = s1.hall_id
			AND s2.date = s1.date
			AND s2.id <> s1.id
		JOIN movies m2 ON m2.id = s2.movie_id
		WHERE s1.movie_id = $1
			AND (s1.date + s1.start_time) >= LOCALTIMESTAMP
			AND (s1.date + s1.start_time) < (s2.date + s2.start_time) + make_interval(mins => m2.duration)
			AND (s1.date + s1.start_time) + make_interval(mins => $2) > (s2.date + s2.start_time)
		ORDER BY s2.id
		LIMIT 1
	`

	var conflictID int

	err := tx.QueryRow(ctx, query, movieID, duration).Scan(&conflictID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}

		return err
	}

	return domain.ScheduleConflictError{ScreeningID: conflictID}
}

func (p *PostgresMovieRepository) Delete(ctx context.Context, id int) error {
	result, err := p.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

var _ domain.MovieRepository = (*PostgresMovieRepository)(nil)
