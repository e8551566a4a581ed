package repository

import (
	"aperturelab/internal/flag"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// flagDoc is one document per learner: {_id: learnerId, flags: {key: value}}
type flagDoc struct {
	LearnerID string            `bson:"_id"`
	Flags     map[string]string `bson:"flags"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

type flagRepo struct {
	collection *mongo.Collection
}

// NewFlagRepo returns a flag.Store backed by the learner_flags collection
func NewFlagRepo(db *mongo.Database) flag.Store {
	return &flagRepo{
		collection: db.Collection("learner_flags"),
	}
}

func (r *flagRepo) Get(ctx context.Context, learnerID, key string) (string, bool, error) {
	if err := flag.CheckKey(learnerID, key); err != nil {
		return "", false, err
	}
	var doc flagDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": learnerID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	v, ok := doc.Flags[key]
	return v, ok, nil
}

func (r *flagRepo) Set(ctx context.Context, learnerID, key, value string) error {
	if err := flag.CheckKey(learnerID, key); err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"flags." + key: value,
		"updatedAt":    time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": learnerID}, update, options.Update().SetUpsert(true))
	return err
}

func (r *flagRepo) Delete(ctx context.Context, learnerID, key string) error {
	if err := flag.CheckKey(learnerID, key); err != nil {
		return err
	}
	update := bson.M{
		"$unset": bson.M{"flags." + key: ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": learnerID}, update)
	return err
}
