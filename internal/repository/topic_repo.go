package repository

import (
	"aperturelab/internal/model"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TopicRepo handles MongoDB operations for seeded topic overrides
type TopicRepo interface {
	List(ctx context.Context) ([]model.Topic, error)
	Upsert(ctx context.Context, topic *model.Topic) error
	DeleteMissing(ctx context.Context, keepIDs []string) (int64, error)
}

type topicRepo struct {
	collection *mongo.Collection
}

// NewTopicRepo creates a new topic repository
func NewTopicRepo(db *mongo.Database) TopicRepo {
	return &topicRepo{
		collection: db.Collection("topics"),
	}
}

// List returns every topic ordered by its order field
func (r *topicRepo) List(ctx context.Context) ([]model.Topic, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var topics []model.Topic
	if err := cursor.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepo) Upsert(ctx context.Context, topic *model.Topic) error {
	if topic.ID == "" {
		return fmt.Errorf("topic id is required")
	}
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": topic.ID},
		topic,
		options.Replace().SetUpsert(true),
	)
	return err
}

// DeleteMissing removes topics whose id is not in keepIDs
func (r *topicRepo) DeleteMissing(ctx context.Context, keepIDs []string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": keepIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
