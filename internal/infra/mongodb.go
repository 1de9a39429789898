package infra

import (
	"context"

	"github.com/hoocms/customers/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const emailIndexName = "email-index"

func Mongodb(ctx context.Context, cfg config.MongoCfg) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URI).SetMaxPoolSize(uint64(cfg.MaxPoolSize))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	return client, nil
}

// EnsureCustomerIndexes creates the secondary index on email. The index is
// unique, so the store itself rejects a write which would leave two records
// with the same email
func EnsureCustomerIndexes(ctx context.Context, client *mongo.Client, cfg config.MongoCfg) error {
	customers := client.Database(cfg.Database).Collection(cfg.Collection)

	_, err := customers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName(emailIndexName).SetUnique(true),
	})
	return err
}
