package repository

import (
	"context"

	"github.com/reshetovitsme/file-share-bot/internal/modules/channel/domain"
	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStorage implements channel.Repository on a MongoDB collection
type MongoStorage struct {
	channels *mongo.Collection
}

// NewMongoStorage creates a MongoDB-backed channel repository
func NewMongoStorage(db *storage.MongoDB) Repository {
	return &MongoStorage{channels: db.Collection(storage.CollectionChannels)}
}

func (s *MongoStorage) SaveChannel(ctx context.Context, channel *domain.JoinChannel) error {
	_, err := s.channels.ReplaceOne(ctx, bson.M{"_id": channel.ID}, channel, options.Replace().SetUpsert(true))
	if err != nil {
		return oops.With("channel_id", channel.ID, "context", "failed to save channel").Wrap(err)
	}
	return nil
}

func (s *MongoStorage) GetAllChannels(ctx context.Context) ([]*domain.JoinChannel, error) {
	cursor, err := s.channels.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}}))
	if err != nil {
		return nil, oops.With("context", "failed to list channels").Wrap(err)
	}

	var channels []*domain.JoinChannel
	if err := cursor.All(ctx, &channels); err != nil {
		return nil, oops.With("context", "failed to decode channels").Wrap(err)
	}
	return channels, nil
}

func (s *MongoStorage) DeleteChannel(ctx context.Context, channelID int64) error {
	res, err := s.channels.DeleteOne(ctx, bson.M{"_id": channelID})
	if err != nil {
		return oops.With("channel_id", channelID, "context", "failed to delete channel").Wrap(err)
	}
	if res.DeletedCount == 0 {
		return errors.ErrChannelNotFound
	}
	return nil
}
