package repository

import (
	"context"
	"errors"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFlightRepository implements FlightRepository
type MongoFlightRepository struct {
	collection *mongo.Collection
}

// NewMongoFlightRepository creates a new flight repository
func NewMongoFlightRepository(db *mongo.Database) repository.FlightRepository {
	collection := db.Collection("flights")

	ctx := context.Background()
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// One stored flight per user and dedup key
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "dedupKey", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "confirmationCode", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "departureAirport", Value: 1},
				{Key: "arrivalAirport", Value: 1},
				{Key: "departureDate", Value: 1},
			},
		},
	})

	return &MongoFlightRepository{
		collection: collection,
	}
}

// FindByConfirmationCode finds a flight by owner and confirmation code
func (r *MongoFlightRepository) FindByConfirmationCode(ctx context.Context, userID, code string) (*entity.Flight, error) {
	return r.findOne(ctx, bson.M{
		"userId":           userID,
		"confirmationCode": code,
	})
}

// FindByFlightRoute finds a flight by owner, flight number and route
func (r *MongoFlightRepository) FindByFlightRoute(ctx context.Context, userID, flightNumber, departure, arrival string) (*entity.Flight, error) {
	return r.findOne(ctx, bson.M{
		"userId":           userID,
		"flightNumber":     flightNumber,
		"departureAirport": departure,
		"arrivalAirport":   arrival,
	})
}

// FindByRouteAndDate finds a flight on the same route departing on the same calendar day
func (r *MongoFlightRepository) FindByRouteAndDate(ctx context.Context, userID, departure, arrival string, date time.Time) (*entity.Flight, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	return r.findOne(ctx, bson.M{
		"userId":           userID,
		"departureAirport": departure,
		"arrivalAirport":   arrival,
		"departureDate": bson.M{
			"$gte": day,
			"$lt":  day.AddDate(0, 0, 1),
		},
	})
}

// Insert stores a new flight. A unique index violation is reported as ErrDuplicateFlight.
func (r *MongoFlightRepository) Insert(ctx context.Context, flight *entity.Flight) error {
	now := time.Now()
	if flight.ID == "" {
		flight.ID = primitive.NewObjectID().Hex()
	}
	if flight.CreatedAt.IsZero() {
		flight.CreatedAt = now
	}
	flight.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, flight)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateFlight
	}
	return err
}

// FindByUser lists a user's flights, most recent departure first
func (r *MongoFlightRepository) FindByUser(ctx context.Context, userID string) ([]*entity.Flight, error) {
	opts := options.Find().SetSort(bson.D{{Key: "departureDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flights []*entity.Flight
	if err := cursor.All(ctx, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (r *MongoFlightRepository) findOne(ctx context.Context, filter bson.M) (*entity.Flight, error) {
	var flight entity.Flight
	err := r.collection.FindOne(ctx, filter).Decode(&flight)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &flight, nil
}
