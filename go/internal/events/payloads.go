package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a live session lifecycle event.
type EventType string

const (
	EventTypeSessionCreated    EventType = "SessionCreated"
	EventTypeSessionTerminated EventType = "SessionTerminated"
	EventTypeBuzzWon           EventType = "BuzzWon"
)

// Event is one session lifecycle event bound for the external feed.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// SessionCreatedPayload describes a freshly launched session.
type SessionCreatedPayload struct {
	Code     string `json:"code"`
	HostID   string `json:"host_id"`
	QuizName string `json:"quiz_name"`
}

// SessionTerminatedPayload describes a session ended by its host.
type SessionTerminatedPayload struct {
	Code string `json:"code"`
}

// BuzzWonPayload describes a resolved buzz event.
type BuzzWonPayload struct {
	Code   string `json:"code"`
	Socket string `json:"socket"`
	Name   string `json:"name"`
}

func newEvent(code string, eventType EventType, payload interface{}) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	return Event{
		ID:        uuid.New(),
		Code:      code,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   data,
	}
}

// NewSessionCreated builds a SessionCreated event.
func NewSessionCreated(code, hostID, quizName string) Event {
	return newEvent(code, EventTypeSessionCreated, SessionCreatedPayload{Code: code, HostID: hostID, QuizName: quizName})
}

// NewSessionTerminated builds a SessionTerminated event.
func NewSessionTerminated(code string) Event {
	return newEvent(code, EventTypeSessionTerminated, SessionTerminatedPayload{Code: code})
}

// NewBuzzWon builds a BuzzWon event.
func NewBuzzWon(code, socket, name string) Event {
	return newEvent(code, EventTypeBuzzWon, BuzzWonPayload{Code: code, Socket: socket, Name: name})
}
