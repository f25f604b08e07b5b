// Package mongo persists the session audit trail. The connection helper and
// the repository live together because nothing else in the gateway talks to
// MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultConnectTimeout = 10 * time.Second

// Config describes the audit database connection.
type Config struct {
	URI      string
	Database string
	// Username and Password authenticate against the audit database when the
	// deployment requires it. Both empty means no credential is sent.
	Username string
	Password string
	// Timeout bounds both the dial and server selection. Zero applies the
	// default.
	Timeout time.Duration
}

// Connect dials the audit database and verifies it with a ping before any
// event is recorded against it.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout)
	if cfg.Username != "" {
		opts = opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting audit database: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("pinging audit database: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
