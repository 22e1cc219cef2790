package repository

import (
	"context"
	"errors"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSyncStatusRepository implements the SyncStatusRepository interface
type MongoSyncStatusRepository struct {
	collection *mongo.Collection
}

// NewMongoSyncStatusRepository creates a new MongoDB sync status repository
func NewMongoSyncStatusRepository(db *mongo.Database) repository.SyncStatusRepository {
	collection := db.Collection("email_sync_status")

	ctx := context.Background()
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"userId": 1},
		Options: options.Index().SetUnique(true),
	})

	return &MongoSyncStatusRepository{
		collection: collection,
	}
}

// Upsert replaces the user's sync status. Counters and error message are only
// written when set, so an in_progress update keeps the last scan's numbers.
func (r *MongoSyncStatusRepository) Upsert(ctx context.Context, status *entity.EmailSyncStatus) error {
	set := bson.M{
		"syncStatus": status.SyncStatus,
		"lastSyncAt": status.LastSyncAt,
	}

	switch status.SyncStatus {
	case entity.SyncStatusCompleted:
		set["emailsScanned"] = status.EmailsScanned
		set["flightsFound"] = status.FlightsFound
		set["errorMessage"] = ""
	case entity.SyncStatusFailed:
		set["errorMessage"] = status.ErrorMessage
	}

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"userId": status.UserID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	return err
}

// GetByUserID returns the user's sync status
func (r *MongoSyncStatusRepository) GetByUserID(ctx context.Context, userID string) (*entity.EmailSyncStatus, error) {
	var status entity.EmailSyncStatus
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&status)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}
