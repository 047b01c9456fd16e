package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func GetClient(ctx context.Context, uri string) (*mongo.Client, error) {
	optionsClient := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second)
	return mongo.Connect(ctx, optionsClient)
}

// Ping checks that the primary is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return client.Ping(ctx, readpref.Primary())
}
