package service

// Event types pushed to a learner's WebSocket connections
const (
	EventLessonUpdated    = "lesson_updated"
	EventQuizUpdated      = "quiz_updated"
	EventQuizAutoAdvanced = "quiz_auto_advanced"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToLearner(learnerID string, msgType string, payload interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToLearner(string, string, interface{}) {}
