package repository

import (
	"context"

	"flightlog-service/internal/domain/entity"
)

// UserRepository defines the interface for user operations
type UserRepository interface {
	Upsert(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
