package repository

import (
	"context"

	"flightlog-service/internal/domain/entity"
)

// AirportRepository resolves IATA airport codes to geographic data
type AirportRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airport, error)
	Seed(ctx context.Context, airports []entity.Airport) error
}
