package repository

import (
	"context"
	"errors"

	"github.com/reshetovitsme/file-share-bot/internal/modules/conversation/domain"
	sharedErrors "github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStorage implements Repository on a MongoDB collection
type MongoStorage struct {
	sessions *mongo.Collection
}

// NewMongoStorage creates a MongoDB-backed session repository
func NewMongoStorage(db *storage.MongoDB) Repository {
	return &MongoStorage{sessions: db.Collection(storage.CollectionConversations)}
}

func (s *MongoStorage) Get(ctx context.Context, adminID int64) (*domain.Session, error) {
	var session domain.Session
	if err := s.sessions.FindOne(ctx, bson.M{"_id": adminID}).Decode(&session); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sharedErrors.ErrSessionNotFound
		}
		return nil, oops.With("admin_id", adminID, "context", "failed to load session").Wrap(err)
	}
	return &session, nil
}

func (s *MongoStorage) Save(ctx context.Context, session *domain.Session) error {
	_, err := s.sessions.ReplaceOne(ctx, bson.M{"_id": session.AdminID}, session, options.Replace().SetUpsert(true))
	if err != nil {
		return oops.With("admin_id", session.AdminID, "context", "failed to save session").Wrap(err)
	}
	return nil
}

func (s *MongoStorage) Delete(ctx context.Context, adminID int64) error {
	if _, err := s.sessions.DeleteOne(ctx, bson.M{"_id": adminID}); err != nil {
		return oops.With("admin_id", adminID, "context", "failed to delete session").Wrap(err)
	}
	return nil
}
