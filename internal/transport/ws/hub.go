package ws

import (
	"aperturelab/internal/platform/logger"
	"encoding/json"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// MsgConnected is sent once when a learner connection opens. Every other
// type comes from the services (lesson_updated, quiz_updated, ...).
const MsgConnected MessageType = "connected"

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans learner events out to that learner's open connections
type Hub struct {
	// learnerID -> open connections (one per tab)
	learnerConns map[string]map[*Connection]struct{}

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once

	log *logger.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	LearnerID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message for every connection of one learner
type BroadcastMessage struct {
	LearnerID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	h := &Hub{
		learnerConns: make(map[string]map[*Connection]struct{}),
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		broadcast:    make(chan *BroadcastMessage, 256),
		done:         make(chan struct{}),
		log:          log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, conns := range h.learnerConns {
				for conn := range conns {
					close(conn.Send)
				}
				delete(h.learnerConns, id)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.learnerConns[conn.LearnerID] == nil {
				h.learnerConns[conn.LearnerID] = make(map[*Connection]struct{})
			}
			h.learnerConns[conn.LearnerID][conn] = struct{}{}
			n := len(h.learnerConns[conn.LearnerID])
			h.mu.Unlock()
			h.log.Debug("learner connected", "learnerId", conn.LearnerID, "connections", n)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.learnerConns[conn.LearnerID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.learnerConns, conn.LearnerID)
					}
					h.log.Debug("learner disconnected", "learnerId", conn.LearnerID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Warn("failed to encode ws message", "type", msg.Message.Type, "error", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.learnerConns[msg.LearnerID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Connections returns how many connections a learner has open
func (h *Hub) Connections(learnerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.learnerConns[learnerID])
}

// BroadcastToLearner sends a message to every connection of a learner
// (implements service.Broadcaster)
func (h *Hub) BroadcastToLearner(learnerID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("failed to encode ws payload", "type", msgType, "error", err)
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		LearnerID: learnerID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}:
	case <-h.done:
	}
}

// Close stops the hub and closes every open connection
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
