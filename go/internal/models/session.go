package models

import (
	"encoding/json"
	"sync"
	"time"
)

// ViewName defines the client-visible screen a live session can display.
// The string values are wire-visible and must not change.
type ViewName string

const (
	ViewQuizBoard ViewName = "quiz_board"
	ViewQuestion  ViewName = "question"
	ViewAnswer    ViewName = "answer"
)

// BuzzStatus defines the lifecycle state of a buzz event.
type BuzzStatus string

const (
	BuzzStatusNone   BuzzStatus = "none"
	BuzzStatusOpen   BuzzStatus = "open"
	BuzzStatusClosed BuzzStatus = "closed"
)

// Participant is a player's persistent identity within a session. The
// socket ID changes across reconnects; name and score survive. Field access
// serializes under the owning session's mutex.
type Participant struct {
	SocketID string `json:"socket"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// BuzzEvent is the single contested "first to respond" event of a session.
// Winner stays nil while the event is open.
type BuzzEvent struct {
	StartedAt time.Time
	Winner    *Participant
}

// Status reports none/open/closed for a possibly-nil event.
func (e *BuzzEvent) Status() BuzzStatus {
	switch {
	case e == nil:
		return BuzzStatusNone
	case e.Winner == nil:
		return BuzzStatusOpen
	default:
		return BuzzStatusClosed
	}
}

// Session is one live, code-addressed hosting of a quiz. Mu guards the
// session's play state: the view command, the answered set, the buzz event,
// and the fields of participants linked here; every such mutation must hold
// it so that concurrent handlers from different connections serialize per
// session. Roster membership (Participants) and the socket index are
// guarded by the store's lock instead.
type Session struct {
	Mu sync.Mutex

	Code      string
	HostID    string
	Quiz      QuizData
	StartedAt time.Time

	// LastViewCommand caches the last broadcast "set view" envelope so
	// late joiners can be brought up to date on attach.
	LastViewCommand json.RawMessage

	Answered     map[int64]struct{}
	Buzz         *BuzzEvent
	Participants []*Participant
}

// IsAnswered reports whether the question has already been played.
func (s *Session) IsAnswered(id int64) bool {
	_, ok := s.Answered[id]
	return ok
}

// RemoveParticipant drops a participant from the roster. No-op if absent.
func (s *Session) RemoveParticipant(p *Participant) {
	for i, existing := range s.Participants {
		if existing == p {
			s.Participants = append(s.Participants[:i], s.Participants[i+1:]...)
			return
		}
	}
}
