package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a MongoDB-backed EdgeStore for hosted deployments.
// A unique compound index on (conversation, source, target) enforces
// the triple constraint; duplicate key errors are swallowed as success.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoStore connects to MongoDB, verifies the connection, and
// ensures the uniqueness index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "boardflow"
	}
	if cfg.Collection == "" {
		cfg.Collection = "edges"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "conversation", Value: 1},
			{Key: "source", Value: 1},
			{Key: "target", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create edge index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) List(ctx context.Context, conversation string) ([]EdgeRecord, error) {
	cur, err := s.coll.Find(ctx, bson.M{"conversation": conversation})
	if err != nil {
		return nil, fmt.Errorf("list edges: %w", err)
	}
	defer cur.Close(ctx)

	var out []EdgeRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode edges: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Create(ctx context.Context, rec EdgeRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.coll.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		// The triple already exists; idempotent success.
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert edge: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, conversation, source, target string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{
		"conversation": conversation,
		"source":       source,
		"target":       target,
	})
	if err != nil {
		return fmt.Errorf("delete edge: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ EdgeStore = (*MongoStore)(nil)
