package lesson

import (
	"aperturelab/internal/model"
	"math"
	"testing"
)

func testTopics() []model.Topic {
	mc := func(correct int) *model.MCQuestion {
		q := &model.MCQuestion{Question: "q?"}
		for i := 0; i < 4; i++ {
			q.Options = append(q.Options, model.Option{Text: string(rune('A' + i)), IsCorrect: i == correct})
		}
		return q
	}
	return []model.Topic{
		{ID: "iso", Title: "ISO", MCQuestion: mc(2)},
		{ID: "aperture", Title: "Aperture", MCQuestion: mc(3)},
		{ID: "shutter", Title: "Shutter Speed", MCQuestion: mc(1)},
		{ID: "composition", Title: "Composition", Phases: []model.Phase{model.PhaseLesson}},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testTopics(), "")
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

// walk advances through every step, answering quick-checks with option 0
func walk(e *Engine, s model.LessonState, steps int) model.LessonState {
	for i := 0; i < steps; i++ {
		if e.step(s).Phase == model.PhaseQuickCheck {
			s = e.Apply(s, Select(0))
			s = e.Apply(s, Reveal())
		}
		s = e.Apply(s, Advance())
	}
	return s
}

func TestNewEngineFlattensSteps(t *testing.T) {
	e := newTestEngine(t)

	if got := e.TotalSteps(); got != 10 {
		t.Fatalf("TotalSteps: got %d, want 10", got)
	}

	steps := e.Steps()
	want := []struct {
		topic string
		phase model.Phase
	}{
		{"iso", model.PhaseLesson}, {"iso", model.PhasePractical}, {"iso", model.PhaseQuickCheck},
		{"aperture", model.PhaseLesson}, {"aperture", model.PhasePractical}, {"aperture", model.PhaseQuickCheck},
		{"shutter", model.PhaseLesson}, {"shutter", model.PhasePractical}, {"shutter", model.PhaseQuickCheck},
		{"composition", model.PhaseLesson},
	}
	for i, w := range want {
		if steps[i].Index != i || steps[i].TopicID != w.topic || steps[i].Phase != w.phase {
			t.Errorf("step %d: got %+v, want %s/%s", i, steps[i], w.topic, w.phase)
		}
	}

	first, last, ok := e.TopicRange(3)
	if !ok || first != 9 || last != 9 {
		t.Errorf("TopicRange(3): got %d..%d ok=%v, want 9..9", first, last, ok)
	}
}

func TestNewEngineRejectsEmptyAndUnknownPhases(t *testing.T) {
	if _, err := NewEngine(nil, ""); err != ErrNoSteps {
		t.Errorf("empty topics: got %v, want ErrNoSteps", err)
	}
	bad := []model.Topic{{ID: "x", Phases: []model.Phase{"bogus"}}}
	if _, err := NewEngine(bad, ""); err == nil {
		t.Error("unknown phase: expected error")
	}
}

func TestAdvanceMarksCompletedAndMoves(t *testing.T) {
	e := newTestEngine(t)
	s := e.Initial(false)

	for i := 0; i < e.TotalSteps(); i++ {
		before := s
		if e.step(s).Phase == model.PhaseQuickCheck {
			s = e.Apply(s, Select(1))
			s = e.Apply(s, Reveal())
		}
		s = e.Apply(s, Advance())

		if !s.IsCompleted(i) {
			t.Fatalf("advance from %d: step not completed (%v)", i, s.Completed)
		}
		wantCurrent := i + 1
		if i == e.TotalSteps()-1 {
			wantCurrent = i
		}
		if s.Current != wantCurrent {
			t.Fatalf("advance from %d: current %d, want %d", i, s.Current, wantCurrent)
		}
		if before.Current != i {
			t.Fatalf("input state mutated: current %d", before.Current)
		}
	}
}

func TestAdvanceBlockedOnUnrevealedQuickCheck(t *testing.T) {
	e := newTestEngine(t)
	s := walk(e, e.Initial(false), 2)
	if e.step(s).Phase != model.PhaseQuickCheck {
		t.Fatalf("expected quickcheck step, got %s", e.step(s).Phase)
	}

	if next := e.Apply(s, Advance()); next.Current != s.Current || next.IsCompleted(2) {
		t.Errorf("advance without reveal should be a no-op, got current=%d completed=%v", next.Current, next.Completed)
	}

	s = e.Apply(s, Select(2))
	if next := e.Apply(s, Advance()); next.Current != s.Current {
		t.Error("advance with selection but no reveal should be a no-op")
	}

	s = e.Apply(s, Reveal())
	if next := e.Apply(s, Advance()); next.Current != 3 {
		t.Errorf("advance after reveal: current %d, want 3", next.Current)
	}
}

func TestSelectOptionGuards(t *testing.T) {
	e := newTestEngine(t)
	s := e.Initial(false)

	if next := e.Apply(s, Select(0)); next.Selected != nil {
		t.Error("selection on a lesson step should be ignored")
	}

	s = walk(e, s, 2)
	s = e.Apply(s, Select(0))
	s = e.Apply(s, Select(3))
	if s.Selected == nil || *s.Selected != 3 {
		t.Fatalf("second selection should overwrite, got %v", s.Selected)
	}

	if next := e.Apply(s, Select(7)); *next.Selected != 3 {
		t.Error("out of range option should be ignored")
	}
	if next := e.Apply(s, Select(-1)); *next.Selected != 3 {
		t.Error("negative option should be ignored")
	}

	s = e.Apply(s, Reveal())
	if next := e.Apply(s, Select(1)); *next.Selected != 3 {
		t.Errorf("selection after reveal should be a no-op, got %d", *next.Selected)
	}
}

func TestRevealRequiresSelection(t *testing.T) {
	e := newTestEngine(t)
	s := walk(e, e.Initial(false), 2)

	if next := e.Apply(s, Reveal()); next.Revealed {
		t.Error("reveal without a selection should be a no-op")
	}

	s = e.Apply(s, Select(2))
	s = e.Apply(s, Reveal())
	fb := e.Feedback(s)
	if fb == nil || !fb.Correct || fb.Message != "Correct!" {
		t.Errorf("feedback: got %+v, want correct", fb)
	}
}

func TestFeedbackNamesCorrectAnswer(t *testing.T) {
	e := newTestEngine(t)
	s := walk(e, e.Initial(false), 2)
	s = e.Apply(s, Select(0))
	s = e.Apply(s, Reveal())

	fb := e.Feedback(s)
	if fb == nil || fb.Correct {
		t.Fatalf("feedback: got %+v, want incorrect", fb)
	}
	if fb.CorrectIndex != 2 || fb.Message != "Incorrect. The correct answer is: C" {
		t.Errorf("feedback: got %+v", fb)
	}
}

func TestJumpToTopicGating(t *testing.T) {
	e := newTestEngine(t)
	s := e.Initial(false)

	tests := []struct {
		name   string
		state  model.LessonState
		topic  int
		wantOK bool
	}{
		{"first topic always open", s, 0, true},
		{"second topic locked at start", s, 1, false},
		{"out of range", s, 9, false},
		{"negative", s, -1, false},
		{"second topic after iso", walk(e, s, 3), 1, true},
		{"third topic needs aperture too", walk(e, s, 3), 2, false},
		{"partial previous topic", walk(e, s, 5), 2, false},
		{"third topic after aperture", walk(e, s, 6), 2, true},
		{"flag bypasses gating", e.Initial(true), 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CanAccessTopic(tt.state, tt.topic); got != tt.wantOK {
				t.Fatalf("CanAccessTopic(%d): got %v, want %v", tt.topic, got, tt.wantOK)
			}
			next := e.Apply(tt.state, JumpTo(tt.topic))
			if tt.wantOK {
				first, _, _ := e.TopicRange(tt.topic)
				if next.Current != first {
					t.Errorf("jump: current %d, want %d", next.Current, first)
				}
			} else if next.Current != tt.state.Current {
				t.Errorf("locked jump should be a no-op, current %d -> %d", tt.state.Current, next.Current)
			}
		})
	}
}

func TestJumpIsGatedOnEveryEarlierTopic(t *testing.T) {
	e := newTestEngine(t)
	// Aperture finished but ISO practical missing
	s := model.LessonState{Current: 0, Completed: []int{0, 2, 3, 4, 5}}
	if e.CanAccessTopic(s, 2) {
		t.Error("topic 2 should stay locked while an ISO step is incomplete")
	}
	s.Completed = []int{0, 1, 2, 3, 4, 5}
	if !e.CanAccessTopic(s, 2) {
		t.Error("topic 2 should unlock once topics 0 and 1 are complete")
	}
}

func TestPreviousClearsQuickCheck(t *testing.T) {
	e := newTestEngine(t)
	if next := e.Apply(e.Initial(false), Previous()); next.Current != 0 {
		t.Errorf("previous at 0: current %d", next.Current)
	}

	s := walk(e, e.Initial(false), 2)
	s = e.Apply(s, Select(1))
	s = e.Apply(s, Previous())
	if s.Current != 1 || s.Selected != nil || s.Revealed {
		t.Errorf("previous: got %+v", s)
	}
}

func TestProgressPercent(t *testing.T) {
	e := newTestEngine(t)
	s := e.Initial(false)
	if got := e.ProgressPercent(s); got != 0 {
		t.Errorf("start: got %v", got)
	}
	s = walk(e, s, 3)
	if got, want := e.ProgressPercent(s), 100.0/3; math.Abs(got-want) > 1e-9 {
		t.Errorf("step 3: got %v, want %v", got, want)
	}

	single, err := NewEngine([]model.Topic{{ID: "only", Phases: []model.Phase{model.PhaseLesson}}}, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := single.ProgressPercent(single.Initial(false)); got != 100 {
		t.Errorf("single step: got %v, want 100", got)
	}
}

func TestTerminalViewLinksToQuiz(t *testing.T) {
	e := newTestEngine(t)
	s := walk(e, e.Initial(false), 9)

	v := e.View(s)
	if !v.IsTerminal || v.NextAction != model.NextQuiz || v.QuizURL != DefaultQuizURL {
		t.Errorf("terminal view: got terminal=%v next=%s url=%q", v.IsTerminal, v.NextAction, v.QuizURL)
	}
	if !v.AllLessonsDone {
		t.Error("all lessons should be done on the terminal step")
	}
	if v.ProgressPercent != 100 {
		t.Errorf("progress: got %v", v.ProgressPercent)
	}

	s = e.Apply(s, Advance())
	if s.Current != 9 || !s.IsCompleted(9) {
		t.Errorf("advance on terminal: got %+v", s)
	}
}

func TestViewLocksTopics(t *testing.T) {
	e := newTestEngine(t)
	v := e.View(walk(e, e.Initial(false), 3))

	wantLocked := []bool{false, false, true, true}
	for i, nav := range v.Topics {
		if nav.Locked != wantLocked[i] {
			t.Errorf("topic %s locked: got %v, want %v", nav.ID, nav.Locked, wantLocked[i])
		}
	}
	if !v.Topics[0].Done || v.Topics[1].Done {
		t.Errorf("done flags: %+v", v.Topics)
	}
	if !v.Topics[1].Active {
		t.Error("aperture should be active")
	}
}

func TestNormalizeRepairsStoredState(t *testing.T) {
	e := newTestEngine(t)
	sel := 9
	s := e.Normalize(model.LessonState{
		Current:   42,
		Completed: []int{5, 1, 1, -3, 99, 0},
		Selected:  &sel,
		Revealed:  true,
	})

	if s.Current != 9 {
		t.Errorf("current: got %d, want 9", s.Current)
	}
	want := []int{0, 1, 5}
	if len(s.Completed) != len(want) {
		t.Fatalf("completed: got %v, want %v", s.Completed, want)
	}
	for i := range want {
		if s.Completed[i] != want[i] {
			t.Fatalf("completed: got %v, want %v", s.Completed, want)
		}
	}
	if s.Selected != nil || s.Revealed {
		t.Errorf("invalid selection should be cleared: %+v", s)
	}
}
