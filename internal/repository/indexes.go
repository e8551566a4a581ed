package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories query by. It keeps
// going after a failure and returns every error it saw.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var errs []error

	// attempts: history per learner and flavor, newest first
	errs = append(errs, createIndex(ctx, db.Collection("attempts"), bson.D{
		{Key: "learnerId", Value: 1},
		{Key: "flavor", Value: 1},
		{Key: "answeredAt", Value: -1},
	}, false))

	// topics: listed in lesson order
	errs = append(errs, createIndex(ctx, db.Collection("topics"), bson.D{{Key: "order", Value: 1}}, false))

	return errors.Join(errs...)
}

func createIndex(ctx context.Context, coll *mongo.Collection, keys bson.D, unique bool) error {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		return fmt.Errorf("create index on %s: %w", coll.Name(), err)
	}
	return nil
}
