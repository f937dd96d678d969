package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinohall/booking-system/internal/domain"
	"github.com/shopspring/decimal"
)

type PostgresHallRepository struct {
	db *pgxpool.Pool
}

func NewPostgresHallRepository(db *pgxpool.Pool) *PostgresHallRepository {
	return &PostgresHallRepository{
		db: db,
	}
}

func (p *PostgresHallRepository) GetAll(ctx context.Context) ([]*domain.Hall, error) {
	query := `
		SELECT id, name, seat_rows, seats_per_row, layout,
			standard_price::text, vip_price::text, created_at, updated_at
		FROM halls
		ORDER BY name
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	halls := make([]*domain.Hall, 0)

	for rows.Next() {
		hall, err := scanHall(rows)
		if err != nil {
			return nil, err
		}

		halls = append(halls, hall)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return halls, nil
}

func (p *PostgresHallRepository) GetById(ctx context.Context, id int) (*domain.Hall, error) {
	query := `
		SELECT id, name, seat_rows, seats_per_row, layout,
			standard_price::text, vip_price::text, created_at, updated_at
		FROM halls
		WHERE id = $1
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

	return scanHall(rows)
}

// UpdatePrices changes the hall's price table. Existing bookings keep the
// totals they were priced with.
func (p *PostgresHallRepository) UpdatePrices(
	ctx context.Context,
	id int,
	standardPrice, vipPrice decimal.Decimal) error {

	query := `
		UPDATE halls
		SET standard_price = $2, vip_price = $3, updated_at = now()
		WHERE id = $1
	`

	result, err := p.db.Exec(ctx, query, id, standardPrice.String(), vipPrice.String())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresHallRepository) UpdateLayout(
	ctx context.Context,
	id, rows, seatsPerRow int,
	layout [][]domain.SeatType) error {

	query := `
		UPDATE halls
		SET seat_rows = $2, seats_per_row = $3, layout = $4, updated_at = now()
		WHERE id = $1
	`

	result, err := p.db.Exec(ctx, query, id, rows, seatsPerRow, layout)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func scanHall(row pgx.Rows) (*domain.Hall, error) {
	var hall domain.Hall
	var standardPrice, vipPrice string

	err := row.Scan(
		&hall.ID,
		&hall.Name,
		&hall.Rows,
		&hall.SeatsPerRow,
		&hall.Layout,
		&standardPrice,
		&vipPrice,
		&hall.CreatedAt,
		&hall.UpdatedAt,
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

	return &hall, nil
}

var _ domain.HallRepository = (*PostgresHallRepository)(nil)
