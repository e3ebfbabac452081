// Package database owns the MongoDB connection lifecycle. Repositories
// receive an explicit *DB handle rather than reaching for a global, so
// tests can swap in whatever store they want.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/rsharma-dev/inventra/config"
)

// DB wraps a connected client and the application database.
type DB struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials MongoDB using MONGO_URI and verifies the connection
// with a ping before returning.
func Connect(ctx context.Context) (*DB, error) {
	uri := config.MongoURI()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("database: connect %s: %w", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &DB{
		Client: client,
		DB:     client.Database(config.MongoDatabase()),
	}, nil
}

// Collection is a shorthand for the named collection on the app database.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.DB.Collection(name)
}

// Ping reports whether the server is reachable. Used by health checks.
func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
