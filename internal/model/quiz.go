package model

import "time"

// Flavor identifies a settings quiz variant
type Flavor string

const (
	FlavorMatch     Flavor = "match"     // Quiz page: match the target image
	FlavorChallenge Flavor = "challenge" // Playground target challenges
)

// TolerancePolicy names how per-field correctness is judged
type TolerancePolicy string

const (
	ToleranceRelative TolerancePolicy = "relative" // fraction of the expected value
	ToleranceRange    TolerancePolicy = "range"    // fraction of the field's full range
)

// QuizQuestion asks the learner to reproduce a target settings tuple
type QuizQuestion struct {
	ID              string   `json:"id" bson:"id" yaml:"id"`
	StartingImage   string   `json:"startingImage,omitempty" bson:"startingImage,omitempty" yaml:"startingImage"`
	TargetImage     string   `json:"targetImage,omitempty" bson:"targetImage,omitempty" yaml:"targetImage"`
	CorrectSettings Settings `json:"-" bson:"correctSettings" yaml:"correctSettings"` // Never sent before the question closes
	Explanation     string   `json:"-" bson:"explanation" yaml:"explanation"`
	FocusOn         Field    `json:"focusOn" bson:"focusOn" yaml:"focusOn"`
}

// QuizFlavor configures one quiz variant
type QuizFlavor struct {
	Flavor      Flavor          `json:"flavor" yaml:"flavor"`
	Title       string          `json:"title" yaml:"title"`
	Policy      TolerancePolicy `json:"policy" yaml:"policy"`
	Tolerance   float64         `json:"tolerance" yaml:"tolerance"`
	MaxAttempts int             `json:"maxAttempts" yaml:"maxAttempts"` // 0 means unlimited
	AutoAdvance bool            `json:"autoAdvance" yaml:"autoAdvance"`
	SetsFlag    bool            `json:"setsFlag" yaml:"setsFlag"` // Finishing writes quizCompleted
	Context     RangeContext    `json:"context" yaml:"context"`
	Start       Settings        `json:"start" yaml:"start"`
	Questions   []QuizQuestion  `json:"questions" yaml:"questions"`
}

// FieldResult is the verdict for one setting
type FieldResult struct {
	Field    Field   `json:"field"`
	Actual   float64 `json:"actual"`
	Expected float64 `json:"-"`
	Correct  bool    `json:"correct"`
}

// Evaluation is the verdict for a full settings tuple
type Evaluation struct {
	ISO          bool          `json:"iso"`
	Aperture     bool          `json:"aperture"`
	ShutterSpeed bool          `json:"shutterSpeed"`
	Correct      bool          `json:"correct"`
	Fields       []FieldResult `json:"fields"`
}

// AttemptRecord is a persisted quiz submission
type AttemptRecord struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	LearnerID  string     `json:"learnerId" bson:"learnerId"`
	Flavor     Flavor     `json:"flavor" bson:"flavor"`
	QuestionID string     `json:"questionId" bson:"questionId"`
	Attempt    int        `json:"attempt" bson:"attempt"`
	Submitted  Settings   `json:"submitted" bson:"submitted"`
	Result     Evaluation `json:"result" bson:"result"`
	Closed     bool       `json:"closed" bson:"closed"`
	AnsweredAt time.Time  `json:"answeredAt" bson:"answeredAt"`
}

// QuizRunState is the stored state of one learner's quiz run
type QuizRunState struct {
	Flavor    Flavor      `json:"flavor"`
	Current   int         `json:"current"`
	Attempts  []int       `json:"attempts"`
	Solved    []bool      `json:"solved"`
	Closed    []bool      `json:"closed"`
	Last      *Evaluation `json:"last,omitempty"`
	Settings  Settings    `json:"settings"`
	Completed bool        `json:"completed"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// QuizView is what the client renders for the current quiz question
type QuizView struct {
	Flavor            Flavor       `json:"flavor"`
	Title             string       `json:"title"`
	QuestionIndex     int          `json:"questionIndex"`
	TotalQuestions    int          `json:"totalQuestions"`
	Question          QuizQuestion `json:"question"`
	Ranges            Ranges       `json:"ranges"`
	Settings          Settings     `json:"settings"`
	Attempts          int          `json:"attempts"`
	MaxAttempts       int          `json:"maxAttempts"`
	AttemptsLeft      int          `json:"attemptsLeft"`
	Last              *Evaluation  `json:"last,omitempty"`
	Solved            bool         `json:"solved"`
	CanContinue       bool         `json:"canContinue"`
	CanGoBack         bool         `json:"canGoBack"`
	RevealedAnswer    *Settings    `json:"revealedAnswer,omitempty"`
	Explanation       string       `json:"explanation,omitempty"`
	Feedback          string       `json:"feedback,omitempty"`
	ProgressPercent   float64      `json:"progressPercent"`
	Completed         bool         `json:"completed"`
	AutoAdvanceMillis int64        `json:"autoAdvanceMillis,omitempty"`
}

// SubmitSettingsRequest is the body of a quiz answer submission
type SubmitSettingsRequest struct {
	ISO          *float64 `json:"iso"`
	Aperture     *float64 `json:"aperture"`
	ShutterSpeed *float64 `json:"shutterSpeed"`
}
