package repository

import (
	"context"

	"flightlog-service/internal/domain/entity"
)

// AirlineRepository resolves airline designators
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
	Seed(ctx context.Context, airlines []entity.Airline) error
}
