package repository

import (
	"context"

	"github.com/reshetovitsme/file-share-bot/internal/modules/activity/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStorage implements Repository on a MongoDB collection
type MongoStorage struct {
	events *mongo.Collection
}

// NewMongoStorage creates a MongoDB-backed activity log
func NewMongoStorage(db *storage.MongoDB) Repository {
	return &MongoStorage{events: db.Collection(storage.CollectionLogs)}
}

func (s *MongoStorage) Save(ctx context.Context, event *domain.Event) error {
	if _, err := s.events.InsertOne(ctx, event); err != nil {
		return oops.With("kind", event.Kind, "context", "failed to save activity event").Wrap(err)
	}
	return nil
}

func (s *MongoStorage) Count(ctx context.Context) (int64, error) {
	n, err := s.events.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, oops.With("context", "failed to count activity events").Wrap(err)
	}
	return n, nil
}
