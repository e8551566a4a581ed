package quiz

import (
	"aperturelab/internal/exposure"
	"aperturelab/internal/model"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AutoAdvanceDelay is how long a solved question stays on screen before the
// run moves on by itself.
const AutoAdvanceDelay = 3 * time.Second

var ErrNoQuestions = errors.New("quiz: flavor has no questions")

// Run applies quiz transitions for one flavor. Like the lesson engine it
// never mutates the state it is given.
type Run struct {
	flavor model.QuizFlavor
	policy Policy
	ranges model.Ranges
}

// NewRun checks the flavor and binds it to the ranges of its control context
func NewRun(fl model.QuizFlavor, ranges model.Ranges) (*Run, error) {
	if len(fl.Questions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuestions, fl.Flavor)
	}
	p, err := PolicyFor(fl, ranges)
	if err != nil {
		return nil, err
	}
	return &Run{flavor: fl, policy: p, ranges: ranges}, nil
}

func (r *Run) Flavor() model.QuizFlavor { return r.flavor }
func (r *Run) Ranges() model.Ranges     { return r.ranges }
func (r *Run) Policy() Policy           { return r.policy }

// Initial is a fresh run positioned on the first question
func (r *Run) Initial() model.QuizRunState {
	n := len(r.flavor.Questions)
	return model.QuizRunState{
		Flavor:   r.flavor.Flavor,
		Attempts: make([]int, n),
		Solved:   make([]bool, n),
		Closed:   make([]bool, n),
		Settings: r.clamp(r.flavor.Start),
	}
}

// Normalize fits a stored state to the current question list
func (r *Run) Normalize(s model.QuizRunState) model.QuizRunState {
	n := len(r.flavor.Questions)
	out := clone(s)
	out.Flavor = r.flavor.Flavor
	out.Attempts = resizeInts(out.Attempts, n)
	out.Solved = resizeBools(out.Solved, n)
	out.Closed = resizeBools(out.Closed, n)
	if out.Current < 0 {
		out.Current = 0
	}
	if out.Current >= n {
		out.Current = n - 1
	}
	out.Settings = r.clamp(out.Settings)
	out.Completed = allTrue(out.Closed)
	return out
}

// Submit judges the learner's settings for the current question. Submitting
// to a closed question is a no-op and returns a nil evaluation.
func (r *Run) Submit(s model.QuizRunState, actual model.Settings) (model.QuizRunState, *model.Evaluation) {
	next := clone(s)
	i := next.Current
	if next.Closed[i] {
		return next, nil
	}
	actual = r.clamp(actual)
	ev := Evaluate(r.flavor.Questions[i].CorrectSettings, actual, r.policy)

	next.Settings = actual
	next.Attempts[i]++
	next.Last = &ev
	if ev.Correct {
		next.Solved[i] = true
		next.Closed[i] = true
	}
	if r.flavor.MaxAttempts > 0 && next.Attempts[i] >= r.flavor.MaxAttempts {
		next.Closed[i] = true
	}
	next.Completed = allTrue(next.Closed)
	return next, &ev
}

// CanContinue is true once the current question is closed and another follows
func (r *Run) CanContinue(s model.QuizRunState) bool {
	return s.Closed[s.Current] && s.Current < len(r.flavor.Questions)-1
}

// Continue moves to the next question. The learner's settings carry over.
func (r *Run) Continue(s model.QuizRunState) model.QuizRunState {
	next := clone(s)
	if !r.CanContinue(s) {
		return next
	}
	next.Current++
	next.Last = nil
	return next
}

// Previous moves back for review
func (r *Run) Previous(s model.QuizRunState) model.QuizRunState {
	next := clone(s)
	if next.Current > 0 {
		next.Current--
		next.Last = nil
	}
	return next
}

// ShouldAutoAdvance reports whether a submission that produced next should
// schedule an automatic continue.
func (r *Run) ShouldAutoAdvance(next model.QuizRunState, ev *model.Evaluation) bool {
	return r.flavor.AutoAdvance && ev != nil && ev.Correct && r.CanContinue(next)
}

// Hint points the learner at the question's focus setting
func (r *Run) Hint(s model.QuizRunState) string {
	q := r.flavor.Questions[s.Current]
	return fmt.Sprintf("Focus on adjusting the %s setting first. "+
		"Look at the differences between the starting and target images for clues.", q.FocusOn)
}

// ProgressPercent is solved/total*100
func (r *Run) ProgressPercent(s model.QuizRunState) float64 {
	solved := 0
	for _, ok := range s.Solved {
		if ok {
			solved++
		}
	}
	return float64(solved) / float64(len(r.flavor.Questions)) * 100
}

// View renders the current question. Correct settings are only exposed
// once the question is closed.
func (r *Run) View(s model.QuizRunState) *model.QuizView {
	i := s.Current
	q := r.flavor.Questions[i]
	v := &model.QuizView{
		Flavor:          r.flavor.Flavor,
		Title:           r.flavor.Title,
		QuestionIndex:   i,
		TotalQuestions:  len(r.flavor.Questions),
		Question:        q,
		Ranges:          r.ranges,
		Settings:        s.Settings,
		Attempts:        s.Attempts[i],
		MaxAttempts:     r.flavor.MaxAttempts,
		Last:            s.Last,
		Solved:          s.Solved[i],
		CanContinue:     r.CanContinue(s),
		CanGoBack:       i > 0,
		ProgressPercent: r.ProgressPercent(s),
		Completed:       s.Completed,
	}
	if r.flavor.MaxAttempts > 0 {
		v.AttemptsLeft = max(r.flavor.MaxAttempts-s.Attempts[i], 0)
	}
	if s.Closed[i] {
		answer := q.CorrectSettings
		v.RevealedAnswer = &answer
		v.Explanation = q.Explanation
	}
	switch {
	case s.Last == nil:
	case s.Last.Correct:
		v.Feedback = "Great job!"
	case s.Closed[i]:
		v.Feedback = "Out of attempts. The target was " + describeSettings(q.CorrectSettings) + "."
	default:
		v.Feedback = "Keep trying!"
	}
	if s.Last != nil && s.Last.Correct && r.flavor.AutoAdvance && v.CanContinue {
		v.AutoAdvanceMillis = AutoAdvanceDelay.Milliseconds()
	}
	return v
}

func describeSettings(s model.Settings) string {
	parts := make([]string, 0, len(model.Fields))
	parts = append(parts, "ISO "+exposure.FormatISO(s.ISO))
	parts = append(parts, exposure.FormatAperture(s.Aperture))
	parts = append(parts, exposure.FormatShutter(s.ShutterSpeed))
	return strings.Join(parts, ", ")
}

func (r *Run) clamp(s model.Settings) model.Settings {
	for _, f := range model.Fields {
		rg := r.ranges.For(f)
		v := s.Get(f)
		if rg.Max <= rg.Min {
			continue
		}
		if v < rg.Min {
			v = rg.Min
		}
		if v > rg.Max {
			v = rg.Max
		}
		s = s.With(f, v)
	}
	return s
}

func clone(s model.QuizRunState) model.QuizRunState {
	out := s
	out.Attempts = append([]int(nil), s.Attempts...)
	out.Solved = append([]bool(nil), s.Solved...)
	out.Closed = append([]bool(nil), s.Closed...)
	if s.Last != nil {
		ev := *s.Last
		ev.Fields = append([]model.FieldResult(nil), s.Last.Fields...)
		out.Last = &ev
	}
	return out
}

func resizeInts(in []int, n int) []int {
	out := make([]int, n)
	copy(out, in)
	return out
}

func resizeBools(in []bool, n int) []bool {
	out := make([]bool, n)
	copy(out, in)
	return out
}

func allTrue(bs []bool) bool {
	if len(bs) == 0 {
		return false
	}
	for _, b := range bs {
		if !b {
			return false
		}
	}
	return true
}
