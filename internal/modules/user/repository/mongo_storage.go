package repository

import (
	"context"
	"errors"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/user/domain"
	sharedErrors "github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStorage implements user.Repository on a MongoDB collection
type MongoStorage struct {
	users *mongo.Collection
}

// NewMongoStorage creates a MongoDB-backed user repository
func NewMongoStorage(db *storage.MongoDB) Repository {
	return &MongoStorage{users: db.Collection(storage.CollectionUsers)}
}

func (s *MongoStorage) SaveUser(ctx context.Context, user *domain.User) error {
	_, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, options.Replace().SetUpsert(true))
	if err != nil {
		return oops.With("user_id", user.ID, "context", "failed to save user").Wrap(err)
	}
	return nil
}

func (s *MongoStorage) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var user domain.User
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sharedErrors.ErrUserNotFound
		}
		return nil, oops.With("user_id", userID, "context", "failed to read user").Wrap(err)
	}
	return &user, nil
}

func (s *MongoStorage) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	cursor, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, oops.With("context", "failed to list users").Wrap(err)
	}

	var users []*domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, oops.With("context", "failed to decode users").Wrap(err)
	}
	return users, nil
}

func (s *MongoStorage) SetBanned(ctx context.Context, userID int64, banned bool) error {
	update := bson.M{
		"$set":         bson.M{"banned": banned},
		"$setOnInsert": bson.M{"joined_at": time.Now()},
	}
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return oops.With("user_id", userID, "banned", banned, "context", "failed to update ban").Wrap(err)
	}
	return nil
}
