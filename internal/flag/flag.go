// Package flag stores the small per-learner flags that outlive a session,
// such as quizCompleted.
package flag

import (
	"context"
	"errors"
	"fmt"
)

// QuizCompletedKey is set to "true" once every match question is closed
const (
	QuizCompletedKey = "quizCompleted"
	TrueValue        = "true"
)

// Backend names accepted by FLAG_BACKEND
const (
	BackendMemory = "memory"
	BackendGdata  = "gdata"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

var ErrInvalidKey = errors.New("flag: learner id and key are required")

// Store is a minimal string key-value store scoped per learner.
// Get reports ok=false for an absent key.
type Store interface {
	Get(ctx context.Context, learnerID, key string) (value string, ok bool, err error)
	Set(ctx context.Context, learnerID, key, value string) error
	Delete(ctx context.Context, learnerID, key string) error
}

// QuizCompleted reads the completion flag. Any value other than "true" counts as unset.
func QuizCompleted(ctx context.Context, s Store, learnerID string) (bool, error) {
	v, ok, err := s.Get(ctx, learnerID, QuizCompletedKey)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", QuizCompletedKey, err)
	}
	return ok && v == TrueValue, nil
}

func MarkQuizCompleted(ctx context.Context, s Store, learnerID string) error {
	if err := s.Set(ctx, learnerID, QuizCompletedKey, TrueValue); err != nil {
		return fmt.Errorf("write %s: %w", QuizCompletedKey, err)
	}
	return nil
}

func ClearQuizCompleted(ctx context.Context, s Store, learnerID string) error {
	if err := s.Delete(ctx, learnerID, QuizCompletedKey); err != nil {
		return fmt.Errorf("delete %s: %w", QuizCompletedKey, err)
	}
	return nil
}

// CheckKey validates the arguments every backend receives
func CheckKey(learnerID, key string) error {
	if learnerID == "" || key == "" {
		return ErrInvalidKey
	}
	return nil
}
