package repository

import (
	"context"
	"errors"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements the UserRepository interface
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) repository.UserRepository {
	return &GormUserRepository{
		db: db,
	}
}

// Users GORM model for database mapping
type Users struct {
	ID        string `gorm:"column:id;primaryKey;size:36"`
	Email     string `gorm:"column:email;uniqueIndex"`
	Name      string `gorm:"column:name"`
	Image     string `gorm:"column:image"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Users) TableName() string {
	return "users"
}

// Upsert creates the user or refreshes profile fields on the existing row
// with the same email, and returns the stored user
func (r *GormUserRepository) Upsert(ctx context.Context, user *entity.User) (*entity.User, error) {
	model := Users{
		ID:    uuid.NewString(),
		Email: user.Email,
		Name:  user.Name,
		Image: user.Image,
	}

	updates := []string{"updated_at"}
	if user.Name != "" {
		updates = append(updates, "name")
	}
	if user.Image != "" {
		updates = append(updates, "image")
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&model)
	if result.Error != nil {
		return nil, result.Error
	}

	// The generated ID is discarded on conflict, so read back the stored row
	return r.GetByEmail(ctx, user.Email)
}

// GetByEmail finds a user by email
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var model Users
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&model)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &entity.User{
		ID:        model.ID,
		Email:     model.Email,
		Name:      model.Name,
		Image:     model.Image,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// GormModels lists the tables managed by the migrate command
func GormModels() []interface{} {
	return []interface{}{
		&Users{},
		&Airports{},
		&Airlines{},
	}
}
