package cache

import (
	"aperturelab/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LearnerCache holds the transient lesson and quiz state of each learner.
// Getters return nil, nil when nothing is stored.
type LearnerCache interface {
	SetLesson(ctx context.Context, learnerID string, s *model.LessonState) error
	GetLesson(ctx context.Context, learnerID string) (*model.LessonState, error)

	SetQuiz(ctx context.Context, learnerID string, s *model.QuizRunState) error
	GetQuiz(ctx context.Context, learnerID string, flavor model.Flavor) (*model.QuizRunState, error)
	DeleteQuiz(ctx context.Context, learnerID string, flavor model.Flavor) error
}

type learnerCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLearnerCache creates a Redis backed learner cache
func NewLearnerCache(client *redis.Client, ttl time.Duration) LearnerCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &learnerCache{
		client: client,
		ttl:    ttl,
	}
}

// Key helpers
func (c *learnerCache) lessonKey(learnerID string) string {
	return fmt.Sprintf("learner:%s:lesson", learnerID)
}

func (c *learnerCache) quizKey(learnerID string, flavor model.Flavor) string {
	return fmt.Sprintf("learner:%s:quiz:%s", learnerID, flavor)
}

func (c *learnerCache) SetLesson(ctx context.Context, learnerID string, s *model.LessonState) error {
	return c.setJSON(ctx, c.lessonKey(learnerID), s)
}

func (c *learnerCache) GetLesson(ctx context.Context, learnerID string) (*model.LessonState, error) {
	var s model.LessonState
	found, err := c.getJSON(ctx, c.lessonKey(learnerID), &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

func (c *learnerCache) SetQuiz(ctx context.Context, learnerID string, s *model.QuizRunState) error {
	return c.setJSON(ctx, c.quizKey(learnerID, s.Flavor), s)
}

func (c *learnerCache) GetQuiz(ctx context.Context, learnerID string, flavor model.Flavor) (*model.QuizRunState, error) {
	var s model.QuizRunState
	found, err := c.getJSON(ctx, c.quizKey(learnerID, flavor), &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

func (c *learnerCache) DeleteQuiz(ctx context.Context, learnerID string, flavor model.Flavor) error {
	return c.client.Del(ctx, c.quizKey(learnerID, flavor)).Err()
}

func (c *learnerCache) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *learnerCache) getJSON(ctx context.Context, key string, v interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// memoryLearnerCache is used when no Redis is configured and in tests
type memoryLearnerCache struct {
	mu      sync.Mutex
	lessons map[string][]byte
	quizzes map[string][]byte
}

// NewMemoryLearnerCache keeps learner state in process. Values are stored
// as JSON so callers never share memory with the cache.
func NewMemoryLearnerCache() LearnerCache {
	return &memoryLearnerCache{
		lessons: make(map[string][]byte),
		quizzes: make(map[string][]byte),
	}
}

func (c *memoryLearnerCache) SetLesson(_ context.Context, learnerID string, s *model.LessonState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lessons[learnerID] = data
	return nil
}

func (c *memoryLearnerCache) GetLesson(_ context.Context, learnerID string) (*model.LessonState, error) {
	c.mu.Lock()
	data, ok := c.lessons[learnerID]
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var s model.LessonState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *memoryLearnerCache) SetQuiz(_ context.Context, learnerID string, s *model.QuizRunState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quizzes[learnerID+":"+string(s.Flavor)] = data
	return nil
}

func (c *memoryLearnerCache) GetQuiz(_ context.Context, learnerID string, flavor model.Flavor) (*model.QuizRunState, error) {
	c.mu.Lock()
	data, ok := c.quizzes[learnerID+":"+string(flavor)]
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var s model.QuizRunState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *memoryLearnerCache) DeleteQuiz(_ context.Context, learnerID string, flavor model.Flavor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.quizzes, learnerID+":"+string(flavor))
	return nil
}
