package repository

import (
	"context"
	"time"

	"github.com/reshetovitsme/file-share-bot/internal/modules/cleanup/domain"
	sharedErrors "github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/reshetovitsme/file-share-bot/internal/shared/storage"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStorage implements Repository on a MongoDB collection
type MongoStorage struct {
	jobs *mongo.Collection
}

// NewMongoStorage creates a MongoDB-backed deletion job repository
func NewMongoStorage(db *storage.MongoDB) Repository {
	return &MongoStorage{jobs: db.Collection(storage.CollectionDeletionJobs)}
}

func (s *MongoStorage) Save(ctx context.Context, job *domain.DeletionJob) error {
	_, err := s.jobs.ReplaceOne(ctx, bson.M{"_id": job.ID}, job, options.Replace().SetUpsert(true))
	if err != nil {
		return oops.With("job_id", job.ID, "context", "failed to save deletion job").Wrap(err)
	}
	return nil
}

func (s *MongoStorage) Due(ctx context.Context, now time.Time) ([]*domain.DeletionJob, error) {
	cursor, err := s.jobs.Find(ctx,
		bson.M{"due_at": bson.M{"$lte": now}},
		options.Find().SetSort(bson.D{{Key: "due_at", Value: 1}}),
	)
	if err != nil {
		return nil, oops.With("context", "failed to query due jobs").Wrap(err)
	}

	var jobs []*domain.DeletionJob
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, oops.With("context", "failed to decode due jobs").Wrap(err)
	}
	return jobs, nil
}

func (s *MongoStorage) Delete(ctx context.Context, id string) error {
	res, err := s.jobs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return oops.With("job_id", id, "context", "failed to delete deletion job").Wrap(err)
	}
	if res.DeletedCount == 0 {
		return sharedErrors.ErrJobNotFound
	}
	return nil
}

func (s *MongoStorage) DeleteByChat(ctx context.Context, chatID int64) (int, error) {
	res, err := s.jobs.DeleteMany(ctx, bson.M{"chat_id": chatID})
	if err != nil {
		return 0, oops.With("chat_id", chatID, "context", "failed to cancel chat jobs").Wrap(err)
	}
	return int(res.DeletedCount), nil
}
