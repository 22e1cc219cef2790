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

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// Airports GORM model for database mapping
type Airports struct {
	gorm.Model
	Code    string  `gorm:"column:code;size:3;uniqueIndex"`
	City    string  `gorm:"column:city"`
	Country string  `gorm:"column:country"`
	Lat     float64 `gorm:"column:lat"`
	Lng     float64 `gorm:"column:lng"`
}

// TableName overrides the default table name
func (Airports) TableName() string {
	return "m_airports"
}

// GetByCode finds an airport by IATA code
func (r *GormAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	var airport Airports
	result := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&airport)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &entity.Airport{
		Code:    airport.Code,
		City:    airport.City,
		Country: airport.Country,
		Lat:     airport.Lat,
		Lng:     airport.Lng,
	}, nil
}

// Seed inserts airports, updating rows whose code already exists
func (r *GormAirportRepository) Seed(ctx context.Context, airports []entity.Airport) error {
	if len(airports) == 0 {
		return nil
	}

	models := make([]Airports, len(airports))
	for i, a := range airports {
		models[i] = Airports{
			Code:    strings.ToUpper(a.Code),
			City:    a.City,
			Country: a.Country,
			Lat:     a.Lat,
			Lng:     a.Lng,
		}
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"city", "country", "lat", "lng", "updated_at"}),
	}).Create(&models).Error
}
