package domain

import (
	"context"
	"time"
)

type Movie struct {
	ID        int
	Title     string
	Synopsis  string
	Origin    string
	PosterUrl string
	Duration  int // minutes
	CreatedAt time.Time
}

type MovieRepository interface {
	GetAll(ctx context.Context) ([]*Movie, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	Create(ctx context.Context, movie *Movie) error
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int) error
}
