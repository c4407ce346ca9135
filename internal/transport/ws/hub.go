package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Observer is told when clients come and go
type Observer interface {
	ClientConnected()
	ClientDisconnected()
}

type nopObserver struct{}

func (nopObserver) ClientConnected()    {}
func (nopObserver) ClientDisconnected() {}

// Hub manages WebSocket subscribers per course
type Hub struct {
	// courseID -> subscribers
	courses map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}

	observer Observer
	logger   *zap.Logger
}

// Connection is one subscriber of a course
type Connection struct {
	CourseID string
	UserID   string
	Send     chan []byte
}

// NewConnection creates a subscriber with a buffered send queue
func NewConnection(courseID, userID string) *Connection {
	return &Connection{CourseID: courseID, UserID: userID, Send: make(chan []byte, 256)}
}

// BroadcastMessage is a message for every subscriber of a course
type BroadcastMessage struct {
	CourseID string
	Data     []byte
}

// NewHub creates a hub and starts its loop. Stop ends it.
func NewHub(observer Observer, logger *zap.Logger) *Hub {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		courses:    make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		observer:   observer,
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.courses[conn.CourseID] == nil {
				h.courses[conn.CourseID] = make(map[*Connection]struct{})
			}
			h.courses[conn.CourseID][conn] = struct{}{}
			h.mu.Unlock()
			h.observer.ClientConnected()
			h.logger.Debug("subscriber connected", zap.String("course_id", conn.CourseID), zap.String("user_id", conn.UserID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if subs, ok := h.courses[conn.CourseID]; ok {
				if _, ok := subs[conn]; ok {
					delete(subs, conn)
					close(conn.Send)
					if len(subs) == 0 {
						delete(h.courses, conn.CourseID)
					}
					h.observer.ClientDisconnected()
					h.logger.Debug("subscriber disconnected", zap.String("course_id", conn.CourseID), zap.String("user_id", conn.UserID))
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.courses[msg.CourseID] {
				select {
				case conn.Send <- msg.Data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for _, subs := range h.courses {
				for conn := range subs {
					close(conn.Send)
					h.observer.ClientDisconnected()
				}
			}
			h.courses = make(map[string]map[*Connection]struct{})
			h.mu.Unlock()
			return
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

// Stop closes every subscriber and ends the hub loop
func (h *Hub) Stop() {
	close(h.done)
}

// Subscribers returns the number of subscribers of a course
func (h *Hub) Subscribers(courseID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.courses[courseID])
}

// BroadcastToCourse sends a message to every subscriber of a course
// (implements service.Broadcaster)
func (h *Hub) BroadcastToCourse(courseID string, msgType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal broadcast payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	data, err := json.Marshal(&Message{Type: msgType, Payload: body})
	if err != nil {
		h.logger.Error("marshal broadcast envelope", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{CourseID: courseID, Data: data}:
	case <-h.done:
	}
}
