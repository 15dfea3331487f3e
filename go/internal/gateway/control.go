package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/livequiz/go/internal/events"
	"github.com/mcdev12/livequiz/go/internal/live"
	"github.com/mcdev12/livequiz/go/internal/quizdata"
)

// LaunchRequest is the body of POST /api/live.
type LaunchRequest struct {
	QuizID int64 `json:"quiz_id"`
}

// LaunchResponse carries the code of a freshly launched session.
type LaunchResponse struct {
	Code string `json:"code"`
}

// HandleLaunch creates a live session for a quiz hosted by the caller. Code
// exhaustion is surfaced synchronously as a 503; there is no automatic
// retry beyond the store's fixed bound.
func (s *Service) HandleLaunch(w http.ResponseWriter, r *http.Request) {
	identity := r.Header.Get(identityHeader)
	if identity == "" {
		writeError(w, http.StatusUnauthorized, errNotAuthenticated)
		return
	}

	var req LaunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := s.content.GetQuiz(r.Context(), req.QuizID)
	if err != nil {
		if errors.Is(err, quizdata.ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, "quiz not found")
			return
		}
		log.Error().Err(err).Int64("quiz_id", req.QuizID).Msg("failed to load quiz content")
		writeError(w, http.StatusInternalServerError, "failed to load quiz content")
		return
	}

	session, err := s.app.Launch(identity, *data)
	if err != nil {
		if errors.Is(err, live.ErrCodeExhausted) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to launch live quiz")
		return
	}

	s.publish(events.NewSessionCreated(session.Code, identity, data.Name))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(LaunchResponse{Code: session.Code})
}

// HandleEnd terminates a live session: broadcast first, then delete.
func (s *Service) HandleEnd(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	identity := r.Header.Get(identityHeader)

	session, err := s.app.Get(code)
	if err != nil {
		writeError(w, http.StatusNotFound, errQuizNotFound)
		return
	}
	if identity == "" || session.HostID != identity {
		writeError(w, http.StatusForbidden, errNotOwner)
		return
	}

	if err := s.EndSession(code); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to end live quiz")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleStats reports hub connection statistics.
func (s *Service) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.hub.Stats()
	stats["service"] = "livequiz_gateway"

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// publish emits a lifecycle event to the feed. Failures are logged, never
// propagated to the user-facing operation.
func (s *Service) publish(event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(context.Background(), event); err != nil {
		log.Error().
			Err(err).
			Str("event_type", string(event.Type)).
			Str("code", event.Code).
			Msg("failed to publish event")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
