package repository

import (
	"context"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoScanLogRepository implements the ScanLogRepository interface
type MongoScanLogRepository struct {
	collection *mongo.Collection
}

// NewMongoScanLogRepository creates a new MongoDB scan log repository
func NewMongoScanLogRepository(db *mongo.Database) repository.ScanLogRepository {
	collection := db.Collection("scan_logs")

	ctx := context.Background()
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"scanId": 1}},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "loggedAt", Value: -1},
			},
		},
		{Keys: bson.M{"status": 1}},
	})

	return &MongoScanLogRepository{
		collection: collection,
	}
}

// SaveAll inserts every entry of a scan
func (r *MongoScanLogRepository) SaveAll(ctx context.Context, entries []entity.ScanLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, len(entries))
	for i := range entries {
		docs[i] = entries[i]
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// FindByScanID returns the entries of one scan in log order
func (r *MongoScanLogRepository) FindByScanID(ctx context.Context, scanID string) ([]entity.ScanLogEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "loggedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"scanId": scanID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []entity.ScanLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
