package service

import (
	"aperturelab/internal/cache"
	"aperturelab/internal/flag"
	"aperturelab/internal/model"
	"aperturelab/internal/platform/logger"
	"aperturelab/internal/quiz"
	"aperturelab/internal/repository"
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
	autoAdvanceTimeout  = 5 * time.Second
)

// QuizService runs the settings quizzes for each learner
type QuizService struct {
	catalog     *CatalogService
	cache       cache.LearnerCache
	attempts    repository.AttemptRepo
	flags       flag.Store
	broadcaster Broadcaster
	locks       *learnerLocks
	log         *logger.Logger

	autoAdvance bool
	delay       time.Duration

	timersMu sync.Mutex
	timers   map[string]*pendingAdvance
	nextGen  uint64
	closed   bool
}

// pendingAdvance is a scheduled auto-continue. gen tells a fired timer
// whether it was superseded while waiting for the learner lock.
type pendingAdvance struct {
	timer *time.Timer
	gen   uint64
}

// NewQuizService creates a new quiz service
func NewQuizService(
	catalog *CatalogService,
	learnerCache cache.LearnerCache,
	attempts repository.AttemptRepo,
	flags flag.Store,
	autoAdvance bool,
	log *logger.Logger,
) *QuizService {
	if log == nil {
		log = logger.Nop()
	}
	return &QuizService{
		catalog:     catalog,
		cache:       learnerCache,
		attempts:    attempts,
		flags:       flags,
		broadcaster: nopBroadcaster{},
		locks:       newLearnerLocks(),
		log:         log,
		autoAdvance: autoAdvance,
		delay:       quiz.AutoAdvanceDelay,
		timers:      make(map[string]*pendingAdvance),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *QuizService) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = nopBroadcaster{}
	}
	s.broadcaster = b
}

// SetAutoAdvanceDelay overrides the wait before an automatic continue
func (s *QuizService) SetAutoAdvanceDelay(d time.Duration) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	s.delay = d
}

// View returns the learner's current question
func (s *QuizService) View(ctx context.Context, learnerID string, flavor model.Flavor) (*model.QuizView, error) {
	run, err := s.catalog.Run(flavor)
	if err != nil {
		return nil, err
	}
	state, err := s.load(ctx, run, learnerID)
	if err != nil {
		return nil, err
	}
	return run.View(state), nil
}

// Submit judges a settings tuple against the current question. Fields left
// out of the request keep the learner's current value.
func (s *QuizService) Submit(ctx context.Context, learnerID string, flavor model.Flavor, req *model.SubmitSettingsRequest) (*model.QuizView, error) {
	run, err := s.catalog.Run(flavor)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(learnerID)
	defer unlock()
	s.cancelAdvance(learnerID, flavor)

	state, err := s.load(ctx, run, learnerID)
	if err != nil {
		return nil, err
	}

	actual := mergeSettings(state.Settings, req)
	next, ev := run.Submit(state, actual)
	if ev == nil {
		// question already closed
		return run.View(state), nil
	}

	// The flag goes first: a run saved as completed never writes it again.
	if run.Flavor().SetsFlag && next.Completed && !state.Completed {
		if err := flag.MarkQuizCompleted(ctx, s.flags, learnerID); err != nil {
			return nil, err
		}
		s.log.Info("quiz completed", "learnerId", learnerID, "flavor", flavor)
	}
	if err := s.save(ctx, learnerID, &next); err != nil {
		return nil, err
	}

	i := state.Current
	record := &model.AttemptRecord{
		LearnerID:  learnerID,
		Flavor:     flavor,
		QuestionID: run.Flavor().Questions[i].ID,
		Attempt:    next.Attempts[i],
		Submitted:  next.Settings,
		Result:     *ev,
		Closed:     next.Closed[i],
	}
	if err := s.attempts.Create(ctx, record); err != nil {
		s.log.Warn("failed to record quiz attempt", "learnerId", learnerID, "flavor", flavor, "error", err)
	}

	if s.autoAdvance && run.ShouldAutoAdvance(next, ev) {
		s.scheduleAdvance(learnerID, flavor)
	}

	view := run.View(next)
	if !s.autoAdvance {
		view.AutoAdvanceMillis = 0
	}
	s.broadcaster.BroadcastToLearner(learnerID, EventQuizUpdated, view)
	return view, nil
}

// Continue moves to the next question once the current one is closed
func (s *QuizService) Continue(ctx context.Context, learnerID string, flavor model.Flavor) (*model.QuizView, error) {
	return s.step(ctx, learnerID, flavor, (*quiz.Run).Continue)
}

// Previous moves back one question for review
func (s *QuizService) Previous(ctx context.Context, learnerID string, flavor model.Flavor) (*model.QuizView, error) {
	return s.step(ctx, learnerID, flavor, (*quiz.Run).Previous)
}

// Restart discards the learner's run. The completion flag is kept.
func (s *QuizService) Restart(ctx context.Context, learnerID string, flavor model.Flavor) (*model.QuizView, error) {
	run, err := s.catalog.Run(flavor)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(learnerID)
	defer unlock()
	s.cancelAdvance(learnerID, flavor)

	if err := s.cache.DeleteQuiz(ctx, learnerID, flavor); err != nil {
		return nil, fmt.Errorf("failed to delete quiz state: %w", err)
	}
	view := run.View(run.Initial())
	s.broadcaster.BroadcastToLearner(learnerID, EventQuizUpdated, view)
	return view, nil
}

// Hint names the setting to adjust first on the current question
func (s *QuizService) Hint(ctx context.Context, learnerID string, flavor model.Flavor) (string, error) {
	run, err := s.catalog.Run(flavor)
	if err != nil {
		return "", err
	}
	state, err := s.load(ctx, run, learnerID)
	if err != nil {
		return "", err
	}
	return run.Hint(state), nil
}

// History returns the learner's submissions, newest first
func (s *QuizService) History(ctx context.Context, learnerID string, flavor model.Flavor, limit int64) ([]*model.AttemptRecord, error) {
	if _, err := s.catalog.Run(flavor); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	records, err := s.attempts.ListByLearner(ctx, learnerID, flavor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	if records == nil {
		records = []*model.AttemptRecord{}
	}
	return records, nil
}

// Close stops every pending auto-advance timer
func (s *QuizService) Close() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	for key, p := range s.timers {
		p.timer.Stop()
		delete(s.timers, key)
	}
	s.closed = true
}

func (s *QuizService) step(ctx context.Context, learnerID string, flavor model.Flavor, move func(*quiz.Run, model.QuizRunState) model.QuizRunState) (*model.QuizView, error) {
	run, err := s.catalog.Run(flavor)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(learnerID)
	defer unlock()
	s.cancelAdvance(learnerID, flavor)

	view, _, err := s.move(ctx, run, learnerID, move)
	if err != nil {
		return nil, err
	}
	s.broadcaster.BroadcastToLearner(learnerID, EventQuizUpdated, view)
	return view, nil
}

// move applies a navigation transition. Callers hold the learner lock.
func (s *QuizService) move(ctx context.Context, run *quiz.Run, learnerID string, move func(*quiz.Run, model.QuizRunState) model.QuizRunState) (*model.QuizView, bool, error) {
	state, err := s.load(ctx, run, learnerID)
	if err != nil {
		return nil, false, err
	}
	next := move(run, state)
	changed := next.Current != state.Current
	if changed {
		if err := s.save(ctx, learnerID, &next); err != nil {
			return nil, false, err
		}
	}
	return run.View(next), changed, nil
}

func (s *QuizService) scheduleAdvance(learnerID string, flavor model.Flavor) {
	key := advanceKey(learnerID, flavor)

	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if s.closed {
		return
	}
	if p, ok := s.timers[key]; ok {
		p.timer.Stop()
	}
	s.nextGen++
	gen := s.nextGen
	s.timers[key] = &pendingAdvance{
		gen:   gen,
		timer: time.AfterFunc(s.delay, func() { s.autoContinue(learnerID, flavor, gen) }),
	}
}

// cancelAdvance drops a pending auto-continue. Callers hold the learner lock.
func (s *QuizService) cancelAdvance(learnerID string, flavor model.Flavor) {
	key := advanceKey(learnerID, flavor)

	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if p, ok := s.timers[key]; ok {
		p.timer.Stop()
		delete(s.timers, key)
	}
}

// claimAdvance removes the pending entry if it still belongs to gen
func (s *QuizService) claimAdvance(learnerID string, flavor model.Flavor, gen uint64) bool {
	key := advanceKey(learnerID, flavor)

	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	p, ok := s.timers[key]
	if !ok || p.gen != gen {
		return false
	}
	delete(s.timers, key)
	return true
}

func (s *QuizService) autoContinue(learnerID string, flavor model.Flavor, gen uint64) {
	run, err := s.catalog.Run(flavor)
	if err != nil {
		return
	}

	unlock := s.locks.lock(learnerID)
	defer unlock()
	if !s.claimAdvance(learnerID, flavor, gen) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), autoAdvanceTimeout)
	defer cancel()

	view, changed, err := s.move(ctx, run, learnerID, (*quiz.Run).Continue)
	if err != nil {
		s.log.Error("auto-advance failed", "learnerId", learnerID, "flavor", flavor, "error", err)
		return
	}
	if changed {
		s.broadcaster.BroadcastToLearner(learnerID, EventQuizAutoAdvanced, view)
	}
}

func (s *QuizService) load(ctx context.Context, run *quiz.Run, learnerID string) (model.QuizRunState, error) {
	cached, err := s.cache.GetQuiz(ctx, learnerID, run.Flavor().Flavor)
	if err != nil {
		return model.QuizRunState{}, fmt.Errorf("failed to load quiz state: %w", err)
	}
	if cached == nil {
		return run.Initial(), nil
	}
	return run.Normalize(*cached), nil
}

func (s *QuizService) save(ctx context.Context, learnerID string, state *model.QuizRunState) error {
	state.UpdatedAt = time.Now()
	if err := s.cache.SetQuiz(ctx, learnerID, state); err != nil {
		return fmt.Errorf("failed to save quiz state: %w", err)
	}
	return nil
}

func advanceKey(learnerID string, flavor model.Flavor) string {
	return learnerID + ":" + string(flavor)
}

func mergeSettings(current model.Settings, req *model.SubmitSettingsRequest) model.Settings {
	if req == nil {
		return current
	}
	if req.ISO != nil {
		current.ISO = *req.ISO
	}
	if req.Aperture != nil {
		current.Aperture = *req.Aperture
	}
	if req.ShutterSpeed != nil {
		current.ShutterSpeed = *req.ShutterSpeed
	}
	return current
}
