package repository

import (
	"context"
	"errors"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/filter/domain"
	sharedErrors "github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStorage implements Repository on a MongoDB collection
type MongoStorage struct {
	filters *mongo.Collection
}

// NewMongoStorage creates a MongoDB-backed filter repository
func NewMongoStorage(db *storage.MongoDB) Repository {
	return &MongoStorage{filters: db.Collection(storage.CollectionFilters)}
}

func (s *MongoStorage) Save(ctx context.Context, filter *domain.Filter) error {
	_, err := s.filters.ReplaceOne(ctx, bson.M{"_id": filter.Keyword}, filter, options.Replace().SetUpsert(true))
	if err != nil {
		return oops.With("keyword", filter.Keyword, "context", "failed to save filter").Wrap(err)
	}
	return nil
}

func (s *MongoStorage) Get(ctx context.Context, keyword string) (*domain.Filter, error) {
	return s.findOne(ctx, bson.M{"_id": keyword})
}

func (s *MongoStorage) GetByOrigin(ctx context.Context, originMessageID int) (*domain.Filter, error) {
	return s.findOne(ctx, bson.M{"origin_message_id": originMessageID})
}

func (s *MongoStorage) findOne(ctx context.Context, query bson.M) (*domain.Filter, error) {
	var filter domain.Filter
	if err := s.filters.FindOne(ctx, query).Decode(&filter); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sharedErrors.ErrFilterNotFound
		}
		return nil, oops.With("query", query, "context", "failed to find filter").Wrap(err)
	}
	return &filter, nil
}

func (s *MongoStorage) GetAll(ctx context.Context) ([]*domain.Filter, error) {
	cursor, err := s.filters.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, oops.With("context", "failed to list filters").Wrap(err)
	}

	var filters []*domain.Filter
	if err := cursor.All(ctx, &filters); err != nil {
		return nil, oops.With("context", "failed to decode filters").Wrap(err)
	}
	return filters, nil
}

func (s *MongoStorage) AppendMessage(ctx context.Context, keyword string, messageID int) (*domain.Filter, error) {
	update := bson.M{
		"$push": bson.M{"message_ids": messageID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var filter domain.Filter
	if err := s.filters.FindOneAndUpdate(ctx, bson.M{"_id": keyword}, update, opts).Decode(&filter); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sharedErrors.ErrFilterNotFound
		}
		return nil, oops.With("keyword", keyword, "message_id", messageID, "context", "failed to append message").Wrap(err)
	}
	return &filter, nil
}

func (s *MongoStorage) Delete(ctx context.Context, keyword string) error {
	res, err := s.filters.DeleteOne(ctx, bson.M{"_id": keyword})
	if err != nil {
		return oops.With("keyword", keyword, "context", "failed to delete filter").Wrap(err)
	}
	if res.DeletedCount == 0 {
		return sharedErrors.ErrFilterNotFound
	}
	return nil
}
