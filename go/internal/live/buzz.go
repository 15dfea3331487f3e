package live

import (
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/livequiz/go/internal/models"
	"github.com/mcdev12/livequiz/go/internal/wire"
)

// BuzzCoordinator manages the single active buzz event of each session.
// All transitions for a session run under that session's mutex, which is
// what makes first-buzzer-wins a single atomic claim.
type BuzzCoordinator struct {
	store *Store
	clock clockwork.Clock
}

// NewBuzzCoordinator creates a coordinator over the given store.
func NewBuzzCoordinator(store *Store, clock clockwork.Clock) *BuzzCoordinator {
	return &BuzzCoordinator{store: store, clock: clock}
}

// Start opens a new buzz event, unconditionally discarding any previous one,
// resolved or not. Returns the open-status broadcast payload.
func (b *BuzzCoordinator) Start(code string) (wire.Message, error) {
	session, err := b.store.Get(code)
	if err != nil {
		return wire.Message{}, err
	}

	session.Mu.Lock()
	session.Buzz = &models.BuzzEvent{StartedAt: b.clock.Now()}
	session.Mu.Unlock()

	log.Debug().Str("code", code).Msg("buzz event opened")
	return wire.BuzzOpenEvent(), nil
}

// End discards the current buzz event, if any. Returns the none-status
// broadcast payload.
func (b *BuzzCoordinator) End(code string) (wire.Message, error) {
	session, err := b.store.Get(code)
	if err != nil {
		return wire.Message{}, err
	}

	session.Mu.Lock()
	session.Buzz = nil
	session.Mu.Unlock()

	log.Debug().Str("code", code).Msg("buzz event cleared")
	return wire.BuzzNoneEvent(), nil
}

// AttemptBuzz tries to claim the open buzz event for the participant behind
// socketID. Exactly one concurrent caller can observe the open-to-closed
// transition; everyone else gets accepted=false with no error. The closed-status broadcast payload is returned only to the
// caller that won.
func (b *BuzzCoordinator) AttemptBuzz(code, socketID string) (accepted bool, msg wire.Message, err error) {
	session, err := b.store.Get(code)
	if err != nil {
		return false, wire.Message{}, err
	}

	participant := b.store.participantBySocket(socketID)
	if participant == nil {
		// Not a registered player; ignore the attempt.
		return false, wire.Message{}, nil
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	if session.Buzz == nil || session.Buzz.Winner != nil {
		return false, wire.Message{}, nil
	}
	session.Buzz.Winner = participant

	log.Debug().
		Str("code", code).
		Str("socket", participant.SocketID).
		Str("name", participant.Name).
		Msg("buzz event closed")

	return true, wire.BuzzClosedEvent(participant.SocketID, participant.Name), nil
}

// Status reports the current buzz broadcast payload for a session, used to
// bring newly attached connections up to date.
func (b *BuzzCoordinator) Status(code string) (wire.Message, error) {
	session, err := b.store.Get(code)
	if err != nil {
		return wire.Message{}, err
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	switch session.Buzz.Status() {
	case models.BuzzStatusOpen:
		return wire.BuzzOpenEvent(), nil
	case models.BuzzStatusClosed:
		winner := session.Buzz.Winner
		return wire.BuzzClosedEvent(winner.SocketID, winner.Name), nil
	default:
		return wire.BuzzNoneEvent(), nil
	}
}
