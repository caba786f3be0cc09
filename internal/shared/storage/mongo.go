package storage

import (
	"context"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by the mongo repositories.
const (
	CollectionFilters       = "filters"
	CollectionUsers         = "users"
	CollectionChannels      = "channels"
	CollectionSettings      = "config"
	CollectionConversations = "conversations"
	CollectionDeletionJobs  = "deletion_jobs"
	CollectionLogs          = "logs"
)

// MongoDB wraps the client and the bot database.
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewMongoDB connects, pings the primary and creates indexes.
func NewMongoDB(ctx context.Context, uri, database string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, oops.With("context", "failed to connect to MongoDB").Wrap(err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, oops.With("context", "failed to ping MongoDB").Wrap(err)
	}

	db := &MongoDB{
		client:   client,
		database: client.Database(database),
	}

	if err := db.createIndexes(ctx); err != nil {
		return nil, oops.With("context", "failed to create indexes").Wrap(err)
	}

	return db, nil
}

func (m *MongoDB) createIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionFilters: {
			{Keys: bson.D{{Key: "origin_message_id", Value: 1}}},
		},
		CollectionUsers: {
			{Keys: bson.D{{Key: "banned", Value: 1}}},
		},
		CollectionChannels: {
			{
				Keys:    bson.D{{Key: "invite_link", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		CollectionDeletionJobs: {
			{Keys: bson.D{{Key: "due_at", Value: 1}}},
			{Keys: bson.D{{Key: "chat_id", Value: 1}}},
		},
		CollectionLogs: {
			{Keys: bson.D{{Key: "time", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := m.database.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return oops.With("collection", name).Wrap(err)
		}
	}
	return nil
}

// Collection returns a handle to the named collection.
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

func (m *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
