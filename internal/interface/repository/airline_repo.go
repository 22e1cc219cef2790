package repository

import (
	"context"
	"errors"
	"strings"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAirlineRepository implements the AirlineRepository interface
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) repository.AirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// Airlines GORM model for database mapping
type Airlines struct {
	gorm.Model
	Code string `gorm:"column:code;size:2;uniqueIndex"`
	Name string `gorm:"column:name"`
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "m_airlines"
}

// GetByCode finds an airline by its two-letter designator
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var airline Airlines
	result := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&airline)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.Airline{
		ID:   airline.ID,
		Code: airline.Code,
		Name: airline.Name,
	}, nil
}

// Seed inserts airlines, renaming rows whose code already exists
func (r *GormAirlineRepository) Seed(ctx context.Context, airlines []entity.Airline) error {
	if len(airlines) == 0 {
		return nil
	}

	models := make([]Airlines, len(airlines))
	for i, a := range airlines {
		models[i] = Airlines{Code: strings.ToUpper(a.Code), Name: a.Name}
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&models).Error
}
