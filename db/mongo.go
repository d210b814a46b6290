package db

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"folio/config"
	"folio/logger"
)

var (
	mu       sync.Mutex
	client   *mongo.Client
	database *mongo.Database
)

// Init establishes the process-wide Mongo connection. Concurrent first
// callers share one in-flight attempt; a failed attempt leaves no state
// behind, so the next call dials a fresh connection instead of reusing a
// poisoned one.
func Init(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()
	if database != nil {
		return nil
	}

	cfg := config.GetConfig()
	uri := cfg.MongoURI
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := cfg.MongoDBName
	if dbName == "" {
		dbName = "folio"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second).
		SetSocketTimeout(10*time.Second))
	if err != nil {
		return err
	}
	// Ping to verify connection
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return err
	}

	client = cl
	database = client.Database(dbName)
	logger.Log.Info("MongoDB connected")
	return nil
}

func Client() *mongo.Client {
	mu.Lock()
	defer mu.Unlock()
	return client
}

func Database() *mongo.Database {
	mu.Lock()
	defer mu.Unlock()
	return database
}

// Disconnect tears the connection down. Mostly useful in tests and on
// shutdown.
func Disconnect(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()
	if client == nil {
		return nil
	}
	err := client.Disconnect(ctx)
	client = nil
	database = nil
	return err
}

// EnsureIndexes is the idempotent startup migration. It must run after
// Init and before the server accepts traffic.
func EnsureIndexes(ctx context.Context) error {
	d := Database()

	// posts: unique slug, plus the common listing sort
	{
		if _, err := d.Collection("posts").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("uniq_slug").SetUnique(true),
		}); err != nil {
			return err
		}
		if _, err := d.Collection("posts").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_published_created_at"),
		}); err != nil {
			return err
		}
		if _, err := d.Collection("posts").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("idx_tags"),
		}); err != nil {
			return err
		}
	}

	// users: unique email
	{
		if _, err := d.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		}); err != nil {
			return err
		}
	}

	// viewevents: dedup probe. Deliberately not unique, see the race note
	// in services.ViewService.
	{
		if _, err := d.Collection("viewevents").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}, {Key: "ip_hash", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_slug_ip_hash"),
		}); err != nil {
			return err
		}
	}

	// categories: unique name and slug (scaffolding, no CRUD surface yet)
	{
		if _, err := d.Collection("categories").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("uniq_category_slug").SetUnique(true),
		}); err != nil {
			return err
		}
	}

	logger.Log.Info("MongoDB indexes ensured")
	return nil
}
