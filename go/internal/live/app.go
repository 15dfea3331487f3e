package live

import (
	"encoding/json"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/livequiz/go/internal/models"
	"github.com/mcdev12/livequiz/go/internal/wire"
)

// App bundles the live session core behind one facade: session store, view
// transitions, buzz lifecycle, and participant registration. The gateway
// talks to this, never to the pieces directly.
type App struct {
	store    *Store
	buzz     *BuzzCoordinator
	registry *Registry
}

// NewApp creates the live quiz application core.
func NewApp(opts ...StoreOption) *App {
	store := NewStore(opts...)
	return &App{
		store:    store,
		buzz:     NewBuzzCoordinator(store, store.clock),
		registry: NewRegistry(store),
	}
}

// Launch creates a live session for a quiz hosted by hostID.
func (a *App) Launch(hostID string, data models.QuizData) (*models.Session, error) {
	return a.store.Create(hostID, data)
}

// Get resolves a session by code.
func (a *App) Get(code string) (*models.Session, error) {
	return a.store.Get(code)
}

// Delete removes a session. Termination must already have been broadcast to
// the session's hub group; see Store.Delete.
func (a *App) Delete(code string) error {
	return a.store.Delete(code)
}

// SetView transitions the session to the requested view and returns the
// broadcastable view command.
func (a *App) SetView(code string, view models.ViewName, questionID int64) (json.RawMessage, error) {
	return a.store.SetView(code, view, questionID)
}

// LastView returns the cached last-broadcast view command for late joiners.
func (a *App) LastView(code string) (json.RawMessage, error) {
	return a.store.LastView(code)
}

// MarkAnswered records a question as played.
func (a *App) MarkAnswered(code string, questionID int64) error {
	return a.store.MarkAnswered(code, questionID)
}

// StartBuzz opens a buzz event.
func (a *App) StartBuzz(code string) (wire.Message, error) {
	return a.buzz.Start(code)
}

// EndBuzz clears the buzz event.
func (a *App) EndBuzz(code string) (wire.Message, error) {
	return a.buzz.End(code)
}

// AttemptBuzz issues a first-buzzer-wins claim on behalf of a socket.
func (a *App) AttemptBuzz(code, socketID string) (bool, wire.Message, error) {
	return a.buzz.AttemptBuzz(code, socketID)
}

// BuzzStatus reports the current buzz payload for late joiners.
func (a *App) BuzzStatus(code string) (wire.Message, error) {
	return a.buzz.Status(code)
}

// RegisterSocket performs participant registration or reconnection. The
// result is a snapshot of the participant's state after the upsert.
func (a *App) RegisterSocket(session *models.Session, newSocket, oldSocket string) models.Participant {
	return a.registry.RegisterSocket(session, newSocket, oldSocket)
}

// Clock exposes the app's clock, mainly so wiring code shares one instance.
func (a *App) Clock() clockwork.Clock {
	return a.store.clock
}
