package live

import "testing"

func TestRegisterSocketCreatesParticipant(t *testing.T) {
	store := NewStore()
	registry := NewRegistry(store)

	session, _ := store.Create("host-1", testQuiz())

	p := registry.RegisterSocket(session, "socket-a", "")
	if p.Name != DefaultParticipantName {
		t.Errorf("expected default name %q, got %q", DefaultParticipantName, p.Name)
	}
	if p.SocketID != "socket-a" {
		t.Errorf("expected socket 'socket-a', got %q", p.SocketID)
	}
	if len(session.Participants) != 1 || session.Participants[0].SocketID != "socket-a" {
		t.Errorf("expected participant to be linked to the session, got %+v", session.Participants)
	}
	if store.participantBySocket("socket-a") != session.Participants[0] {
		t.Error("expected socket index to resolve the roster participant")
	}
}

func TestRegisterSocketReconnectPreservesIdentity(t *testing.T) {
	store := NewStore()
	registry := NewRegistry(store)

	session, _ := store.Create("host-1", testQuiz())

	registry.RegisterSocket(session, "socket-a", "")
	first := store.participantBySocket("socket-a")
	first.Name = "Ada"
	first.Score = 300

	second := registry.RegisterSocket(session, "socket-b", "socket-a")
	if second.SocketID != "socket-b" {
		t.Errorf("expected socket rewritten to 'socket-b', got %q", second.SocketID)
	}
	if second.Name != "Ada" || second.Score != 300 {
		t.Errorf("expected name and score to survive reconnect, got %+v", second)
	}
	if len(session.Participants) != 1 {
		t.Errorf("expected one participant after reconnect, got %d", len(session.Participants))
	}
	if store.participantBySocket("socket-a") != nil {
		t.Error("expected the old socket to be unindexed")
	}
	if store.participantBySocket("socket-b") != first {
		t.Error("expected the new socket to resolve the same participant")
	}
}

func TestRegisterSocketUnknownOldSocket(t *testing.T) {
	store := NewStore()
	registry := NewRegistry(store)

	session, _ := store.Create("host-1", testQuiz())

	p := registry.RegisterSocket(session, "socket-a", "stale-socket")
	if p.Name != DefaultParticipantName {
		t.Errorf("expected a fresh participant, got %+v", p)
	}
	if len(session.Participants) != 1 {
		t.Errorf("expected one participant, got %d", len(session.Participants))
	}
}

func TestRegisterSocketRelinksAcrossSessions(t *testing.T) {
	store := NewStore()
	registry := NewRegistry(store)

	oldSession, _ := store.Create("host-1", testQuiz())
	newSession, _ := store.Create("host-2", testQuiz())

	registry.RegisterSocket(oldSession, "socket-a", "")
	store.participantBySocket("socket-a").Name = "Grace"

	moved := registry.RegisterSocket(newSession, "socket-b", "socket-a")
	if moved.Name != "Grace" {
		t.Errorf("expected the same participant to move between sessions, got %+v", moved)
	}
	if len(oldSession.Participants) != 0 {
		t.Errorf("expected participant removed from old session, got %d", len(oldSession.Participants))
	}
	if len(newSession.Participants) != 1 || newSession.Participants[0] != store.participantBySocket("socket-b") {
		t.Error("expected participant linked to the new session")
	}
}
