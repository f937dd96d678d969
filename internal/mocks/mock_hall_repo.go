package mocks

import (
	"context"

	"github.com/kinohall/booking-system/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockHallRepo struct {
	mock.Mock
	domain.HallRepository
}

func (m *MockHallRepo) GetAll(ctx context.Context) ([]*domain.Hall, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Hall), args.Error(1)
}

func (m *MockHallRepo) GetById(ctx context.Context, id int) (*domain.Hall, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hall), args.Error(1)
}

func (m *MockHallRepo) UpdatePrices(ctx context.Context, id int, standardPrice, vipPrice decimal.Decimal) error {
	args := m.Called(ctx, id, standardPrice, vipPrice)
	return args.Error(0)
}

func (m *MockHallRepo) UpdateLayout(ctx context.Context, id, rows, seatsPerRow int, layout [][]domain.SeatType) error {
	args := m.Called(ctx, id, rows, seatsPerRow, layout)
	return args.Error(0)
}
