package repository

import (
	"aperturelab/internal/model"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AttemptRepo stores the history of quiz submissions
type AttemptRepo interface {
	Create(ctx context.Context, a *model.AttemptRecord) error
	ListByLearner(ctx context.Context, learnerID string, flavor model.Flavor, limit int64) ([]*model.AttemptRecord, error)
}

type attemptRepo struct {
	collection *mongo.Collection
}

func NewAttemptRepo(db *mongo.Database) AttemptRepo {
	return &attemptRepo{
		collection: db.Collection("attempts"),
	}
}

func (r *attemptRepo) Create(ctx context.Context, a *model.AttemptRecord) error {
	prepareAttempt(a)
	_, err := r.collection.InsertOne(ctx, a)
	return err
}

// ListByLearner returns the newest attempts first
func (r *attemptRepo) ListByLearner(ctx context.Context, learnerID string, flavor model.Flavor, limit int64) ([]*model.AttemptRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "answeredAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"learnerId": learnerID, "flavor": flavor}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []*model.AttemptRecord
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func prepareAttempt(a *model.AttemptRecord) {
	if a.ID == "" {
		a.ID = "a_" + uuid.New().String()[:8]
	}
	if a.AnsweredAt.IsZero() {
		a.AnsweredAt = time.Now()
	}
}

type memoryAttemptRepo struct {
	mu       sync.Mutex
	attempts []model.AttemptRecord
}

// NewMemoryAttemptRepo keeps history in process when MongoDB is not configured
func NewMemoryAttemptRepo() AttemptRepo {
	return &memoryAttemptRepo{}
}

func (r *memoryAttemptRepo) Create(_ context.Context, a *model.AttemptRecord) error {
	prepareAttempt(a)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, *a)
	return nil
}

func (r *memoryAttemptRepo) ListByLearner(_ context.Context, learnerID string, flavor model.Flavor, limit int64) ([]*model.AttemptRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.AttemptRecord
	for i := len(r.attempts) - 1; i >= 0; i-- {
		a := r.attempts[i]
		if a.LearnerID == learnerID && a.Flavor == flavor {
			out = append(out, &a)
		}
	}
	// newest first; later inserts win ties
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnsweredAt.After(out[j].AnsweredAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}
