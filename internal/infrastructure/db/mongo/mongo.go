// Package mongo is the networked storage adapter. Books and users live in
// collections of a single database; username uniqueness and list ordering
// ride on indexes created at startup.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// defaultTimeout bounds the initial dial and every repository call.
const defaultTimeout = 10 * time.Second

// Config selects the deployment and database the registry lives in.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration // zero means defaultTimeout
}

// Connect dials the deployment and verifies a primary is reachable before
// any repository is built on it, so a bad MONGO_URI fails at startup rather
// than on the first request.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
