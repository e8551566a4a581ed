package model

import "time"

// LessonState is one learner's position in the lesson sequence
type LessonState struct {
	Current       int       `json:"current"`
	Completed     []int     `json:"completed"` // Sorted, unique step indices
	Selected      *int      `json:"selected,omitempty"`
	Revealed      bool      `json:"revealed"`
	QuizCompleted bool      `json:"-"` // Mirrors the persisted flag, never cached
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IsCompleted reports whether a step index is in the completed set
func (s *LessonState) IsCompleted(step int) bool {
	for _, c := range s.Completed {
		if c == step {
			return true
		}
		if c > step {
			return false
		}
	}
	return false
}

// TopicNav is one entry of the topic navigation bar
type TopicNav struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
	Locked bool   `json:"locked"`
	Done   bool   `json:"done"`
}

// QuickCheckFeedback is shown once a quick-check answer is revealed
type QuickCheckFeedback struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Message      string `json:"message"`
}

// NextAction tells the client what the forward control does
type NextAction string

const (
	NextAdvance NextAction = "advance"
	NextQuiz    NextAction = "quiz"
)

// LessonView is the derived, render-ready form of a LessonState
type LessonView struct {
	Step            Step                `json:"step"`
	TotalSteps      int                 `json:"totalSteps"`
	Topic           *Topic              `json:"topic"`
	Topics          []TopicNav          `json:"topics"`
	Completed       []int               `json:"completed"`
	SelectedOption  *int                `json:"selectedOption,omitempty"`
	Revealed        bool                `json:"revealed"`
	Feedback        *QuickCheckFeedback `json:"feedback,omitempty"`
	CanAdvance      bool                `json:"canAdvance"`
	CanGoBack       bool                `json:"canGoBack"`
	CanReveal       bool                `json:"canReveal"`
	IsTerminal      bool                `json:"isTerminal"`
	NextAction      NextAction          `json:"nextAction"`
	QuizURL         string              `json:"quizUrl,omitempty"`
	ProgressPercent float64             `json:"progressPercent"`
	AllLessonsDone  bool                `json:"allLessonsDone"`
	QuizCompleted   bool                `json:"quizCompleted"`
}
