package live

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/livequiz/go/internal/wire"
)

func TestBuzzLifecycle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewStore(WithClock(clock))
	registry := NewRegistry(store)
	buzz := NewBuzzCoordinator(store, clock)

	session, err := store.Create("host-1", testQuiz())
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	registry.RegisterSocket(session, "socket-a", "")

	status, err := buzz.Status(session.Code)
	if err != nil {
		t.Fatalf("failed to read status: %v", err)
	}
	if status.Payload.(wire.BuzzPayload).Status != wire.BuzzNone {
		t.Errorf("expected initial status none, got %+v", status.Payload)
	}

	// Buzzing with no open event is a silent no-op.
	accepted, _, err := buzz.AttemptBuzz(session.Code, "socket-a")
	if err != nil {
		t.Fatalf("attempt failed: %v", err)
	}
	if accepted {
		t.Error("expected buzz against idle event to be rejected")
	}

	msg, err := buzz.Start(session.Code)
	if err != nil {
		t.Fatalf("failed to start buzz: %v", err)
	}
	if msg.Payload.(wire.BuzzPayload).Status != wire.BuzzOpen {
		t.Errorf("expected open payload, got %+v", msg.Payload)
	}
	if !session.Buzz.StartedAt.Equal(clock.Now()) {
		t.Errorf("expected buzz start at %v, got %v", clock.Now(), session.Buzz.StartedAt)
	}

	accepted, msg, err = buzz.AttemptBuzz(session.Code, "socket-a")
	if err != nil {
		t.Fatalf("attempt failed: %v", err)
	}
	if !accepted {
		t.Fatal("expected buzz against open event to win")
	}
	payload := msg.Payload.(wire.BuzzPayload)
	if payload.Status != wire.BuzzClosed || payload.Socket != "socket-a" || payload.Name != DefaultParticipantName {
		t.Errorf("unexpected closed payload %+v", payload)
	}

	// The closed event stays resolved until the host acts.
	accepted, _, _ = buzz.AttemptBuzz(session.Code, "socket-a")
	if accepted {
		t.Error("expected buzz against closed event to be rejected")
	}

	msg, err = buzz.End(session.Code)
	if err != nil {
		t.Fatalf("failed to end buzz: %v", err)
	}
	if msg.Payload.(wire.BuzzPayload).Status != wire.BuzzNone {
		t.Errorf("expected none payload after end, got %+v", msg.Payload)
	}
}

func TestStartDiscardsPreviousEvent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewStore(WithClock(clock))
	registry := NewRegistry(store)
	buzz := NewBuzzCoordinator(store, clock)

	session, _ := store.Create("host-1", testQuiz())
	registry.RegisterSocket(session, "socket-a", "")

	if _, err := buzz.Start(session.Code); err != nil {
		t.Fatalf("failed to start buzz: %v", err)
	}
	if accepted, _, _ := buzz.AttemptBuzz(session.Code, "socket-a"); !accepted {
		t.Fatal("expected first buzz to win")
	}

	// Restarting reopens the event even though the previous one resolved.
	if _, err := buzz.Start(session.Code); err != nil {
		t.Fatalf("failed to restart buzz: %v", err)
	}
	if session.Buzz.Winner != nil {
		t.Error("expected restarted event to have no winner")
	}
	if accepted, _, _ := buzz.AttemptBuzz(session.Code, "socket-a"); !accepted {
		t.Error("expected buzz against restarted event to win")
	}
}

func TestAttemptBuzzUnknownSocket(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewStore(WithClock(clock))
	buzz := NewBuzzCoordinator(store, clock)

	session, _ := store.Create("host-1", testQuiz())
	if _, err := buzz.Start(session.Code); err != nil {
		t.Fatalf("failed to start buzz: %v", err)
	}

	accepted, _, err := buzz.AttemptBuzz(session.Code, "never-registered")
	if err != nil {
		t.Fatalf("attempt failed: %v", err)
	}
	if accepted {
		t.Error("expected buzz from unregistered socket to be ignored")
	}
	if session.Buzz.Winner != nil {
		t.Error("expected event to stay open")
	}
}

func TestStatusDuringWinnerReconnects(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewStore(WithClock(clock))
	registry := NewRegistry(store)
	buzz := NewBuzzCoordinator(store, clock)

	session, _ := store.Create("host-1", testQuiz())
	registry.RegisterSocket(session, "socket-0", "")

	if _, err := buzz.Start(session.Code); err != nil {
		t.Fatalf("failed to start buzz: %v", err)
	}
	if accepted, _, _ := buzz.AttemptBuzz(session.Code, "socket-0"); !accepted {
		t.Fatal("expected buzz to win")
	}

	// The winner reconnects repeatedly while the hub keeps reading the buzz
	// status for late joiners. The socket rewrite and the winner reads must
	// serialize on the session mutex.
	const rounds = 1000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		old := "socket-0"
		for i := 1; i <= rounds; i++ {
			next := fmt.Sprintf("socket-%d", i)
			registry.RegisterSocket(session, next, old)
			old = next
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			status, err := buzz.Status(session.Code)
			if err != nil {
				t.Errorf("failed to read status: %v", err)
				return
			}
			if status.Payload.(wire.BuzzPayload).Status != wire.BuzzClosed {
				t.Error("expected status to stay closed")
				return
			}
		}
	}()
	wg.Wait()

	status, err := buzz.Status(session.Code)
	if err != nil {
		t.Fatalf("failed to read status: %v", err)
	}
	payload := status.Payload.(wire.BuzzPayload)
	if payload.Socket != fmt.Sprintf("socket-%d", rounds) || payload.Name != DefaultParticipantName {
		t.Errorf("unexpected winner payload after reconnects: %+v", payload)
	}
}

func TestConcurrentBuzzSingleWinner(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC))
	store := NewStore(WithClock(clock))
	registry := NewRegistry(store)
	buzz := NewBuzzCoordinator(store, clock)

	session, _ := store.Create("host-1", testQuiz())

	const players = 32
	sockets := make([]string, players)
	for i := range sockets {
		sockets[i] = fmt.Sprintf("socket-%d", i)
		registry.RegisterSocket(session, sockets[i], "")
	}

	if _, err := buzz.Start(session.Code); err != nil {
		t.Fatalf("failed to start buzz: %v", err)
	}

	var wg sync.WaitGroup
	wins := make(chan wire.BuzzPayload, players)
	for _, socket := range sockets {
		wg.Add(1)
		go func(socket string) {
			defer wg.Done()
			accepted, msg, err := buzz.AttemptBuzz(session.Code, socket)
			if err != nil {
				t.Errorf("attempt from %s failed: %v", socket, err)
				return
			}
			if accepted {
				wins <- msg.Payload.(wire.BuzzPayload)
			}
		}(socket)
	}
	wg.Wait()
	close(wins)

	var winners []wire.BuzzPayload
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly one winner, got %d", len(winners))
	}
	if session.Buzz.Winner == nil || session.Buzz.Winner.SocketID != winners[0].Socket {
		t.Errorf("winner payload %+v does not match session state %+v", winners[0], session.Buzz.Winner)
	}
}
