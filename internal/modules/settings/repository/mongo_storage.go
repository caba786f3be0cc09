package repository

import (
	"context"
	"errors"

	"github.com/reshetovitsme/file-share-bot/internal/modules/settings/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStorage implements Repository on a MongoDB collection
type MongoStorage struct {
	config *mongo.Collection
}

// NewMongoStorage creates a MongoDB-backed settings repository
func NewMongoStorage(db *storage.MongoDB) Repository {
	return &MongoStorage{config: db.Collection(storage.CollectionSettings)}
}

func (s *MongoStorage) Get(ctx context.Context) (*domain.Settings, error) {
	var settings domain.Settings
	if err := s.config.FindOne(ctx, bson.M{"_id": domain.SettingsID}).Decode(&settings); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Default(), nil
		}
		return nil, oops.With("context", "failed to load settings").Wrap(err)
	}
	return &settings, nil
}

func (s *MongoStorage) Save(ctx context.Context, settings *domain.Settings) error {
	settings.ID = domain.SettingsID
	_, err := s.config.ReplaceOne(ctx, bson.M{"_id": domain.SettingsID}, settings, options.Replace().SetUpsert(true))
	if err != nil {
		return oops.With("context", "failed to save settings").Wrap(err)
	}
	return nil
}
