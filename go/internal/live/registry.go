package live

import (
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/livequiz/go/internal/models"
)

// DefaultParticipantName is assigned to newly created participants until
// they pick a display name.
const DefaultParticipantName = "Anonymous"

// Registry maps connection socket IDs to participant identities. Players
// reconnect with fresh sockets; the registry rewrites the stored socket in
// place so name and score survive the reconnect without duplicate rows.
type Registry struct {
	store *Store
}

// NewRegistry creates a registry over the given store's socket index.
func NewRegistry(store *Store) *Registry {
	return &Registry{store: store}
}

// RegisterSocket claims newSocket for a participant of session. The upsert
// is keyed on oldSocket: if a participant already holds it, that record is
// re-keyed to newSocket and re-linked to session; otherwise a fresh
// participant is created with the default name and zero score. oldSocket may
// be empty for first-time connections. The returned participant is a
// snapshot: live participant fields are only touched under their owning
// session's mutex.
func (r *Registry) RegisterSocket(session *models.Session, newSocket, oldSocket string) models.Participant {
	s := r.store

	s.mu.Lock()
	defer s.mu.Unlock()

	if ref, ok := s.sockets[oldSocket]; oldSocket != "" && ok {
		delete(s.sockets, oldSocket)

		// The socket rewrite must serialize with buzz reads, which resolve
		// the winner's fields under the owning session's mutex.
		ref.session.Mu.Lock()
		ref.participant.SocketID = newSocket
		snapshot := *ref.participant
		ref.session.Mu.Unlock()

		if ref.session != session {
			ref.session.RemoveParticipant(ref.participant)
			session.Participants = append(session.Participants, ref.participant)
			ref.session = session
		}
		s.sockets[newSocket] = ref

		log.Info().
			Str("code", session.Code).
			Str("old_socket", oldSocket).
			Str("socket", newSocket).
			Str("name", snapshot.Name).
			Msg("participant reconnected")

		return snapshot
	}

	participant := &models.Participant{
		SocketID: newSocket,
		Name:     DefaultParticipantName,
	}
	session.Participants = append(session.Participants, participant)
	s.sockets[newSocket] = &socketRef{session: session, participant: participant}

	log.Info().
		Str("code", session.Code).
		Str("socket", newSocket).
		Msg("participant registered")

	return *participant
}

// participantBySocket resolves a participant by its current socket ID.
func (s *Store) participantBySocket(socketID string) *models.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, ok := s.sockets[socketID]
	if !ok {
		return nil
	}
	return ref.participant
}
