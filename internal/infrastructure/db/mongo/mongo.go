// Package mongo holds the MongoDB connector and the document repositories
// for accounts, profiles, and intake submissions.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout  = 10 * time.Second
	opTimeout       = 10 * time.Second
	defaultPoolSize = 50
)

// Config is the connection configuration for Connect.
type Config struct {
	URI      string
	Database string
	// MaxPoolSize overrides the driver's connection pool cap when > 0.
	MaxPoolSize uint64
}

// Connect dials MongoDB, verifies the server is reachable, and returns the
// client together with the configured database handle.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	pool := cfg.MaxPoolSize
	if pool == 0 {
		pool = defaultPoolSize
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(pool))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}
