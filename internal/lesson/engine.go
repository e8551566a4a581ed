// Package lesson sequences a learner through the topic/phase steps of the
// catalog. The engine is a pure reducer: Apply never mutates its input and
// has no side effects, so callers own persistence and concurrency.
package lesson

import (
	"aperturelab/internal/model"
	"errors"
	"fmt"
	"sort"
)

// DefaultQuizURL is where the terminal step sends the learner
const DefaultQuizURL = "/quiz"

// ErrNoSteps is returned for a topic list without any phases
var ErrNoSteps = errors.New("lesson: topic list produces no steps")

// Engine holds the immutable step layout derived from a topic list
type Engine struct {
	topics     []model.Topic
	steps      []model.Step
	topicFirst []int // first step index per topic
	topicLast  []int // last step index per topic
	quizURL    string
}

// NewEngine flattens topics into steps. Topics without phases get the default three.
func NewEngine(topics []model.Topic, quizURL string) (*Engine, error) {
	if quizURL == "" {
		quizURL = DefaultQuizURL
	}
	e := &Engine{
		topics:     make([]model.Topic, len(topics)),
		topicFirst: make([]int, len(topics)),
		topicLast:  make([]int, len(topics)),
		quizURL:    quizURL,
	}
	copy(e.topics, topics)

	for ti, t := range e.topics {
		phases := t.Phases
		if len(phases) == 0 {
			phases = model.DefaultPhases
		}
		e.topicFirst[ti] = len(e.steps)
		for _, p := range phases {
			if !p.Valid() {
				return nil, fmt.Errorf("lesson: topic %q has unknown phase %q", t.ID, p)
			}
			e.steps = append(e.steps, model.Step{
				Index:      len(e.steps),
				TopicIndex: ti,
				TopicID:    t.ID,
				Phase:      p,
			})
		}
		e.topicLast[ti] = len(e.steps) - 1
	}

	if len(e.steps) == 0 {
		return nil, ErrNoSteps
	}
	return e, nil
}

// Steps returns a copy of the flattened step list
func (e *Engine) Steps() []model.Step {
	out := make([]model.Step, len(e.steps))
	copy(out, e.steps)
	return out
}

// TotalSteps is always at least one
func (e *Engine) TotalSteps() int {
	return len(e.steps)
}

// Topics returns the topics in order
func (e *Engine) Topics() []model.Topic {
	return e.topics
}

// TopicRange returns the first and last step index of a topic
func (e *Engine) TopicRange(topic int) (first, last int, ok bool) {
	if topic < 0 || topic >= len(e.topics) {
		return 0, 0, false
	}
	return e.topicFirst[topic], e.topicLast[topic], true
}

// Initial is the state of a learner who has not started yet
func (e *Engine) Initial(quizCompleted bool) model.LessonState {
	return model.LessonState{
		Current:       0,
		Completed:     []int{},
		QuizCompleted: quizCompleted,
	}
}

// Normalize repairs a state loaded from storage: the step index is clamped
// into range and the completed set is sorted, deduplicated and trimmed.
func (e *Engine) Normalize(s model.LessonState) model.LessonState {
	out := clone(s)
	if out.Current < 0 {
		out.Current = 0
	}
	if out.Current >= len(e.steps) {
		out.Current = len(e.steps) - 1
	}

	seen := make(map[int]bool, len(out.Completed))
	completed := make([]int, 0, len(out.Completed))
	for _, c := range out.Completed {
		if c < 0 || c >= len(e.steps) || seen[c] {
			continue
		}
		seen[c] = true
		completed = append(completed, c)
	}
	sort.Ints(completed)
	out.Completed = completed

	if out.Selected != nil && !e.selectable(out, *out.Selected) {
		out.Selected = nil
		out.Revealed = false
	}
	if out.Selected == nil {
		out.Revealed = false
	}
	return out
}

// Apply runs one transition. Guarded transitions return an unchanged copy.
func (e *Engine) Apply(s model.LessonState, a Action) model.LessonState {
	next := clone(s)
	switch a.Kind {
	case ActionAdvance:
		if !e.CanAdvance(s) {
			return next
		}
		next.Completed = insertSorted(next.Completed, s.Current)
		if !e.IsTerminal(s) {
			next.Current = s.Current + 1
			resetQuickCheck(&next)
		}

	case ActionPrevious:
		if s.Current > 0 {
			next.Current = s.Current - 1
			resetQuickCheck(&next)
		}

	case ActionJumpToTopic:
		if !e.CanAccessTopic(s, a.Topic) {
			return next
		}
		next.Current = e.topicFirst[a.Topic]
		resetQuickCheck(&next)

	case ActionSelectOption:
		if s.Revealed || !e.selectable(s, a.Option) {
			return next
		}
		opt := a.Option
		next.Selected = &opt

	case ActionReveal:
		if s.Revealed || s.Selected == nil || e.step(s).Phase != model.PhaseQuickCheck {
			return next
		}
		next.Revealed = true
	}
	return next
}

// CanAccessTopic is true when every step of all earlier topics is complete,
// or the persisted quiz flag bypasses gating.
func (e *Engine) CanAccessTopic(s model.LessonState, topic int) bool {
	if topic < 0 || topic >= len(e.topics) {
		return false
	}
	if s.QuizCompleted || topic == 0 {
		return true
	}
	for i := 0; i < e.topicFirst[topic]; i++ {
		if !s.IsCompleted(i) {
			return false
		}
	}
	return true
}

// CanAdvance is false on an unrevealed quick-check step
func (e *Engine) CanAdvance(s model.LessonState) bool {
	st := e.step(s)
	if st.Phase != model.PhaseQuickCheck {
		return true
	}
	if e.topics[st.TopicIndex].MCQuestion == nil {
		return true
	}
	return s.Revealed
}

// IsTerminal reports whether the learner is on the last step
func (e *Engine) IsTerminal(s model.LessonState) bool {
	return s.Current >= len(e.steps)-1
}

// ProgressPercent is current/(total-1)*100, or 100 for a single step
func (e *Engine) ProgressPercent(s model.LessonState) float64 {
	if len(e.steps) <= 1 {
		return 100
	}
	return float64(s.Current) / float64(len(e.steps)-1) * 100
}

// AllLessonsDone is true once every step before the terminal one is complete
// and the terminal step has been reached.
func (e *Engine) AllLessonsDone(s model.LessonState) bool {
	last := len(e.steps) - 1
	for i := 0; i < last; i++ {
		if !s.IsCompleted(i) {
			return false
		}
	}
	return s.Current == last || s.IsCompleted(last)
}

// Feedback returns the revealed verdict for the current quick-check, if any
func (e *Engine) Feedback(s model.LessonState) *model.QuickCheckFeedback {
	st := e.step(s)
	q := e.topics[st.TopicIndex].MCQuestion
	if !s.Revealed || s.Selected == nil || q == nil || st.Phase != model.PhaseQuickCheck {
		return nil
	}
	correctIdx := q.CorrectIndex()
	fb := &model.QuickCheckFeedback{CorrectIndex: correctIdx}
	if *s.Selected == correctIdx {
		fb.Correct = true
		fb.Message = "Correct!"
		return fb
	}
	fb.Message = "Incorrect."
	if correctIdx >= 0 {
		fb.Message = "Incorrect. The correct answer is: " + q.Options[correctIdx].Text
	}
	return fb
}

func (e *Engine) step(s model.LessonState) model.Step {
	i := s.Current
	if i < 0 {
		i = 0
	}
	if i >= len(e.steps) {
		i = len(e.steps) - 1
	}
	return e.steps[i]
}

func (e *Engine) selectable(s model.LessonState, option int) bool {
	st := e.step(s)
	if st.Phase != model.PhaseQuickCheck {
		return false
	}
	q := e.topics[st.TopicIndex].MCQuestion
	return q != nil && option >= 0 && option < len(q.Options)
}

func resetQuickCheck(s *model.LessonState) {
	s.Selected = nil
	s.Revealed = false
}

func clone(s model.LessonState) model.LessonState {
	out := s
	out.Completed = make([]int, len(s.Completed))
	copy(out.Completed, s.Completed)
	if s.Selected != nil {
		v := *s.Selected
		out.Selected = &v
	}
	return out
}

func insertSorted(set []int, v int) []int {
	i := sort.SearchInts(set, v)
	if i < len(set) && set[i] == v {
		return set
	}
	set = append(set, 0)
	copy(set[i+1:], set[i:])
	set[i] = v
	return set
}
