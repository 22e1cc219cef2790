package repository

import (
	"context"
	"errors"
	"time"

	"flightlog-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned by point lookups that match nothing
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateFlight is returned when the store rejects an insert on its uniqueness constraint
	ErrDuplicateFlight = errors.New("duplicate flight")
)

// FlightRepository defines the persisted lookups used for deduplication.
// All lookups are keyed by owner and return ErrNotFound when nothing matches.
type FlightRepository interface {
	FindByConfirmationCode(ctx context.Context, userID, code string) (*entity.Flight, error)
	FindByFlightRoute(ctx context.Context, userID, flightNumber, departure, arrival string) (*entity.Flight, error)
	FindByRouteAndDate(ctx context.Context, userID, departure, arrival string, date time.Time) (*entity.Flight, error)
	Insert(ctx context.Context, flight *entity.Flight) error
	FindByUser(ctx context.Context, userID string) ([]*entity.Flight, error)
}
