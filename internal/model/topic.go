package model

// Phase is one stage of a topic's lesson flow
type Phase string

const (
	PhaseLesson     Phase = "lesson"     // Description, tips and simulator
	PhasePractical  Phase = "practical"  // Worked examples and annotated image
	PhaseQuickCheck Phase = "quickcheck" // Multiple-choice check
)

// DefaultPhases is used when a topic does not list its own phases
var DefaultPhases = []Phase{PhaseLesson, PhasePractical, PhaseQuickCheck}

// Valid reports whether p is a known phase
func (p Phase) Valid() bool {
	switch p {
	case PhaseLesson, PhasePractical, PhaseQuickCheck:
		return true
	}
	return false
}

// Tip is a short rule of thumb shown next to the simulator
type Tip struct {
	Text string `json:"text" bson:"text" yaml:"text"` // "Phrase (Range): Description"
	Icon string `json:"icon,omitempty" bson:"icon,omitempty" yaml:"icon"`
}

// Example is a worked example with the settings that produced it
type Example struct {
	Title       string `json:"title" bson:"title" yaml:"title"`
	Description string `json:"description" bson:"description" yaml:"description"`
	Settings    string `json:"settings" bson:"settings" yaml:"settings"` // e.g. "ISO 100, f/8, 1/125s"
	ImagePath   string `json:"imagePath,omitempty" bson:"imagePath,omitempty" yaml:"imagePath"`
}

// Option is one answer of a multiple-choice question
type Option struct {
	Text      string `json:"text" bson:"text" yaml:"text"`
	IsCorrect bool   `json:"isCorrect" bson:"isCorrect" yaml:"isCorrect"`
}

// MCQuestion is the quick-check question of a topic
type MCQuestion struct {
	Question string   `json:"question" bson:"question" yaml:"question"`
	Options  []Option `json:"options" bson:"options" yaml:"options"`
}

// CorrectIndex returns the index of the first correct option, or -1
func (q *MCQuestion) CorrectIndex() int {
	for i, o := range q.Options {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

// ImageSettingNotes explains how each setting was chosen for the annotated image
type ImageSettingNotes struct {
	ISO          string `json:"iso,omitempty" bson:"iso,omitempty" yaml:"iso"`
	Aperture     string `json:"aperture,omitempty" bson:"aperture,omitempty" yaml:"aperture"`
	ShutterSpeed string `json:"shutterSpeed,omitempty" bson:"shutterSpeed,omitempty" yaml:"shutterSpeed"`
}

// ImageDetails annotates the topic's lesson image
type ImageDetails struct {
	Title       string            `json:"title" bson:"title" yaml:"title"`
	Description string            `json:"description" bson:"description" yaml:"description"`
	Settings    ImageSettingNotes `json:"settings" bson:"settings" yaml:"settings"`
}

// Topic is an immutable unit of lesson content
type Topic struct {
	ID           string        `json:"id" bson:"_id" yaml:"id"`
	Title        string        `json:"title" bson:"title" yaml:"title"`
	Description  string        `json:"description" bson:"description" yaml:"description"`
	Tips         []Tip         `json:"tips" bson:"tips" yaml:"tips"`
	ImagePath    string        `json:"imagePath,omitempty" bson:"imagePath,omitempty" yaml:"imagePath"`
	StencilPath  string        `json:"stencilPath,omitempty" bson:"stencilPath,omitempty" yaml:"stencilPath"` // Composition overlay
	Simulator    string        `json:"simulator,omitempty" bson:"simulator,omitempty" yaml:"simulator"`       // iso, aperture, shutter, composition
	Examples     []Example     `json:"examples,omitempty" bson:"examples,omitempty" yaml:"examples"`
	MCQuestion   *MCQuestion   `json:"mcQuestion,omitempty" bson:"mcQuestion,omitempty" yaml:"mcQuestion"`
	ImageDetails *ImageDetails `json:"imageDetails,omitempty" bson:"imageDetails,omitempty" yaml:"imageDetails"`
	Phases       []Phase       `json:"phases" bson:"phases" yaml:"phases"`
	Order        int           `json:"order" bson:"order" yaml:"order"`
}

// Step is one (topic, phase) unit in the flattened lesson sequence
type Step struct {
	Index      int    `json:"index"`
	TopicIndex int    `json:"topicIndex"`
	TopicID    string `json:"topicId"`
	Phase      Phase  `json:"phase"`
}
