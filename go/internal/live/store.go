package live

import (
	"encoding/json"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/livequiz/go/internal/models"
)

// socketRef locates a participant and the session that owns it by socket ID.
type socketRef struct {
	session     *models.Session
	participant *models.Participant
}

// Store holds every live session, keyed by code. It guards the session map,
// the cross-session socket index, and session participant lists with one
// RWMutex; per-session view/buzz state and participant field rewrites are
// guarded by each session's own mutex.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	sockets  map[string]*socketRef

	genCode CodeGenerator
	clock   clockwork.Clock
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCodeGenerator replaces the session code generator. Used by tests to
// force collisions.
func WithCodeGenerator(gen CodeGenerator) StoreOption {
	return func(s *Store) { s.genCode = gen }
}

// WithClock replaces the wall clock. In production, use
// clockwork.NewRealClock(). In tests, a FakeClock.
func WithClock(clock clockwork.Clock) StoreOption {
	return func(s *Store) { s.clock = clock }
}

// NewStore creates an empty session store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*models.Session),
		sockets:  make(map[string]*socketRef),
		genCode:  randomCode,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create launches a live session for a quiz owned by hostID. It materializes
// a private copy of the content snapshot, generates a unique code with a
// bounded number of retries, and initializes the view to the quiz board.
func (s *Store) Create(hostID string, data models.QuizData) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := ""
	for range codeRetries {
		candidate := s.genCode()
		if _, taken := s.sessions[candidate]; !taken {
			code = candidate
			break
		}
	}
	if code == "" {
		return nil, ErrCodeExhausted
	}

	session := &models.Session{
		Code:      code,
		HostID:    hostID,
		Quiz:      data.Clone(),
		StartedAt: s.clock.Now(),
		Answered:  make(map[int64]struct{}),
	}

	cmd, err := BuildView(&session.Quiz, session.Answered, models.ViewQuizBoard, 0)
	if err != nil {
		return nil, err
	}
	session.LastViewCommand = mustMarshal(cmd)

	s.sessions[code] = session

	log.Info().
		Str("code", code).
		Str("host_id", hostID).
		Str("quiz", data.Name).
		Msg("live session created")

	return session, nil
}

// Get resolves a session by code.
func (s *Store) Get(code string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[code]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session and cascades to its participants and buzz state.
// The caller must broadcast termination to the session's hub group before
// calling, since the group identity derives from the session code.
func (s *Store) Delete(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[code]
	if !ok {
		return ErrSessionNotFound
	}

	for _, p := range session.Participants {
		delete(s.sockets, p.SocketID)
	}
	delete(s.sessions, code)

	log.Info().Str("code", code).Msg("live session deleted")
	return nil
}

// SetView computes the payload for the requested view, persists it as the
// session's cached view command, and returns it. Transitioning to the answer
// view marks that question as answered, which removes it from subsequent
// board payloads.
func (s *Store) SetView(code string, view models.ViewName, questionID int64) (json.RawMessage, error) {
	session, err := s.Get(code)
	if err != nil {
		return nil, err
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	cmd, err := BuildView(&session.Quiz, session.Answered, view, questionID)
	if err != nil {
		return nil, err
	}
	if view == models.ViewAnswer {
		session.Answered[questionID] = struct{}{}
	}

	session.LastViewCommand = mustMarshal(cmd)
	return session.LastViewCommand, nil
}

// LastView returns the session's cached last-broadcast view command.
func (s *Store) LastView(code string) (json.RawMessage, error) {
	session, err := s.Get(code)
	if err != nil {
		return nil, err
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()
	return session.LastViewCommand, nil
}

// MarkAnswered records a question as played without changing the view.
func (s *Store) MarkAnswered(code string, questionID int64) error {
	session, err := s.Get(code)
	if err != nil {
		return err
	}
	if _, ok := session.Quiz.Question(questionID); !ok {
		return ErrQuestionNotFound
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()
	session.Answered[questionID] = struct{}{}
	return nil
}

// mustMarshal encodes an outbound message. The payload types are all
// marshalable by construction.
func mustMarshal(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
