package service

import (
	"aperturelab/internal/cache"
	"aperturelab/internal/flag"
	"aperturelab/internal/lesson"
	"aperturelab/internal/model"
	"aperturelab/internal/platform/logger"
	"context"
	"fmt"
	"time"
)

// LessonService loads, transitions and stores each learner's lesson state
type LessonService struct {
	catalog     *CatalogService
	cache       cache.LearnerCache
	flags       flag.Store
	authSvc     *AuthService
	broadcaster Broadcaster
	locks       *learnerLocks
	log         *logger.Logger
}

// NewLessonService creates a new lesson service
func NewLessonService(
	catalog *CatalogService,
	learnerCache cache.LearnerCache,
	flags flag.Store,
	authSvc *AuthService,
	log *logger.Logger,
) *LessonService {
	if log == nil {
		log = logger.Nop()
	}
	return &LessonService{
		catalog:     catalog,
		cache:       learnerCache,
		flags:       flags,
		authSvc:     authSvc,
		broadcaster: nopBroadcaster{},
		locks:       newLearnerLocks(),
		log:         log,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *LessonService) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = nopBroadcaster{}
	}
	s.broadcaster = b
}

// StartSession issues a token for a new learner and returns the initial
// lesson view. Resuming an existing learner needs a token signed for that
// learner; an expired one is accepted.
func (s *LessonService) StartSession(ctx context.Context, req *model.StartSessionRequest) (*model.StartSessionResponse, error) {
	learnerID := s.authSvc.NewLearnerID()
	if req != nil && req.LearnerID != "" {
		if err := s.authSvc.CheckLearnerID(req.LearnerID); err != nil {
			return nil, err
		}
		owner, err := s.authSvc.ResumeLearnerToken(req.Token)
		if err != nil || owner != req.LearnerID {
			s.log.Warn("rejected session resume", "learnerId", req.LearnerID)
			return nil, ErrInvalidToken
		}
		learnerID = req.LearnerID
	}

	token, expiresAt, err := s.authSvc.GenerateLearnerToken(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	view, err := s.View(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	s.log.Info("learner session started", "learnerId", learnerID)
	return &model.StartSessionResponse{
		LearnerID: learnerID,
		Token:     token,
		ExpiresAt: expiresAt,
		Lesson:    view,
	}, nil
}

// View returns the learner's current lesson view without changing it
func (s *LessonService) View(ctx context.Context, learnerID string) (*model.LessonView, error) {
	state, err := s.load(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	return s.catalog.Engine().View(state), nil
}

// Apply runs one transition for the learner. Guarded transitions leave the
// state as it was and still return the view.
func (s *LessonService) Apply(ctx context.Context, learnerID string, action lesson.Action) (*model.LessonView, error) {
	unlock := s.locks.lock(learnerID)
	defer unlock()

	state, err := s.load(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	engine := s.catalog.Engine()
	next := engine.Apply(state, action)
	next.UpdatedAt = time.Now()
	if err := s.cache.SetLesson(ctx, learnerID, &next); err != nil {
		return nil, fmt.Errorf("failed to save lesson state: %w", err)
	}

	view := engine.View(next)
	s.log.Debug("lesson transition",
		"learnerId", learnerID,
		"action", action.String(),
		"from", state.Current,
		"to", next.Current,
	)
	s.broadcaster.BroadcastToLearner(learnerID, EventLessonUpdated, view)
	return view, nil
}

// QuizCompleted reads the persisted completion flag
func (s *LessonService) QuizCompleted(ctx context.Context, learnerID string) (bool, error) {
	return flag.QuizCompleted(ctx, s.flags, learnerID)
}

// ResetQuizCompleted clears the completion flag so topic gating applies again
func (s *LessonService) ResetQuizCompleted(ctx context.Context, learnerID string) (*model.LessonView, error) {
	if err := flag.ClearQuizCompleted(ctx, s.flags, learnerID); err != nil {
		return nil, err
	}
	view, err := s.View(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	s.broadcaster.BroadcastToLearner(learnerID, EventLessonUpdated, view)
	return view, nil
}

// load reads the cached state, or starts a new one, and mirrors the flag into it
func (s *LessonService) load(ctx context.Context, learnerID string) (model.LessonState, error) {
	done, err := flag.QuizCompleted(ctx, s.flags, learnerID)
	if err != nil {
		return model.LessonState{}, err
	}

	engine := s.catalog.Engine()
	cached, err := s.cache.GetLesson(ctx, learnerID)
	if err != nil {
		return model.LessonState{}, fmt.Errorf("failed to load lesson state: %w", err)
	}
	if cached == nil {
		return engine.Initial(done), nil
	}
	cached.QuizCompleted = done
	return engine.Normalize(*cached), nil
}
