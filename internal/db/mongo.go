package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongo opens the document store holding recipes.
// The driver connects lazily, so an unreachable server only surfaces on Ping.
// When required is false a failed ping is logged and the client is still
// returned, letting the rest of the site serve while recipes are unavailable.
func ConnectMongo(ctx context.Context, uri, database string, required bool) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		if required {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		slog.Warn("mongo unreachable, recipes unavailable until it recovers", "error", err)
	} else {
		slog.Info("mongo connected", "database", database)
	}

	return client, client.Database(database), nil
}

func DisconnectMongo(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
