// Package redis is the networked session adapter: sessions keyed under a
// shared Redis instance, for deployments where logins must survive a process
// restart.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config selects the Redis instance sessions are stored in.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration // zero means defaultTimeout
}

// Connect opens a client and fails fast when the instance is unreachable, so
// a bad SESSION_STORE setup surfaces at startup rather than at first login.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
