package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type SeatType string

const (
	SeatTypeStandard SeatType = "standard"
	SeatTypeVip      SeatType = "vip"
	SeatTypeDisabled SeatType = "disabled"
)

func (t SeatType) Valid() bool {
	return t == SeatTypeStandard || t == SeatTypeVip || t == SeatTypeDisabled
}

// Bookable reports whether seats of this type can be reserved by clients.
func (t SeatType) Bookable() bool {
	return t == SeatTypeStandard || t == SeatTypeVip
}

type Hall struct {
	ID            int
	Name          string
	Rows          int
	SeatsPerRow   int
	Layout        [][]SeatType
	StandardPrice decimal.Decimal
	VipPrice      decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Price returns the hall's current price for a bookable seat type.
func (h *Hall) Price(seatType SeatType) decimal.Decimal {
	if seatType == SeatTypeVip {
		return h.VipPrice
	}

	return h.StandardPrice
}

// SeatTypeAt returns the configured type of the seat at the given 1-based
// position, or false when the position is outside the hall's grid.
func (h *Hall) SeatTypeAt(row, seat int) (SeatType, bool) {
	if row < 1 || row > h.Rows || seat < 1 || seat > h.SeatsPerRow {
		return "", false
	}

	// Halls created before their layout was configured fall back to an
	// all-standard grid bounded by rows and seatsPerRow.
	if len(h.Layout) == 0 {
		return SeatTypeStandard, true
	}

	return h.Layout[row-1][seat-1], true
}

// DefaultLayout builds an all-standard seat grid of the given dimensions.
func DefaultLayout(rows, seatsPerRow int) [][]SeatType {
	layout := make([][]SeatType, rows)

	for r := range layout {
		layout[r] = make([]SeatType, seatsPerRow)
		for s := range layout[r] {
			layout[r][s] = SeatTypeStandard
		}
	}

	return layout
}

type HallRepository interface {
	GetAll(ctx context.Context) ([]*Hall, error)
	GetById(ctx context.Context, id int) (*Hall, error)
	UpdatePrices(ctx context.Context, id int, standardPrice, vipPrice decimal.Decimal) error
	UpdateLayout(ctx context.Context, id, rows, seatsPerRow int, layout [][]SeatType) error
}
