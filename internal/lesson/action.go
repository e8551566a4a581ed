package lesson

import "fmt"

// ActionKind names a lesson transition
type ActionKind string

const (
	ActionAdvance      ActionKind = "advance"
	ActionPrevious     ActionKind = "previous"
	ActionJumpToTopic  ActionKind = "jump"
	ActionSelectOption ActionKind = "select"
	ActionReveal       ActionKind = "reveal"
)

// Action is one learner interaction
type Action struct {
	Kind   ActionKind `json:"kind"`
	Topic  int        `json:"topic,omitempty"`
	Option int        `json:"option,omitempty"`
}

func Advance() Action  { return Action{Kind: ActionAdvance} }
func Previous() Action { return Action{Kind: ActionPrevious} }
func Reveal() Action   { return Action{Kind: ActionReveal} }

// JumpTo targets the first step of a topic
func JumpTo(topic int) Action {
	return Action{Kind: ActionJumpToTopic, Topic: topic}
}

// Select picks a quick-check option
func Select(option int) Action {
	return Action{Kind: ActionSelectOption, Option: option}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionJumpToTopic:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Topic)
	case ActionSelectOption:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Option)
	}
	return string(a.Kind)
}
