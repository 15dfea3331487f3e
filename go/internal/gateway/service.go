package gateway

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/livequiz/go/internal/events"
	"github.com/mcdev12/livequiz/go/internal/live"
	"github.com/mcdev12/livequiz/go/internal/quizdata"
	"github.com/mcdev12/livequiz/go/internal/wire"
)

// Admission error messages. These are client-facing contract strings.
const (
	errQuizNotFound     = "The specified live quiz does not exist."
	errNotAuthenticated = "Only authenticated users can host a quiz."
	errNotOwner         = "You are not the owner of the quiz."
)

const infoConnected = "Connected successfully."

// identityHeader carries the external identity assertion for the connecting
// principal. In production this is populated by the auth proxy in front of
// the service; an empty value means unauthenticated.
const identityHeader = "X-User-ID"

// Service is the live quiz gateway: it admits websocket connections to
// session hubs, dispatches their messages, and exposes the launch/end
// control endpoints.
type Service struct {
	app     *live.App
	hub     *ConnectionManager
	router  *Router
	content quizdata.ContentRepository
	events  events.Publisher
}

// NewService wires the gateway together and installs the message router as
// the hub's inbound sink.
func NewService(app *live.App, hub *ConnectionManager, content quizdata.ContentRepository, publisher events.Publisher) *Service {
	router := NewDefaultRouter(app, hub, publisher)
	hub.SetSink(router)

	return &Service{
		app:     app,
		hub:     hub,
		router:  router,
		content: content,
		events:  publisher,
	}
}

// Start runs the hub broadcast loop until Stop.
func (s *Service) Start() {
	s.hub.Start()
}

// Stop shuts the hub down.
func (s *Service) Stop() {
	s.hub.Stop()
}

// RegisterRoutes registers the websocket and control routes.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/live/host/{code}", s.HandleHostConnection)
	mux.HandleFunc("GET /ws/live/play/{code}", s.HandlePlayerConnection)
	mux.HandleFunc("POST /api/live", s.HandleLaunch)
	mux.HandleFunc("DELETE /api/live/{code}", s.HandleEnd)
	mux.HandleFunc("GET /api/live/stats", s.HandleStats)
	log.Info().Msg("live quiz gateway routes registered")
}

// HandleHostConnection admits a host connection to a session hub. The
// transport handshake is accepted first so that admission errors can be
// delivered over the socket; all failed checks are accumulated into a
// single error envelope before the connection is closed.
func (s *Service) HandleHostConnection(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	conn, err := s.hub.Upgrade(w, r, code, true)
	if err != nil {
		return
	}

	identity := r.Header.Get(identityHeader)

	var errs []string
	session, getErr := s.app.Get(code)
	if getErr != nil {
		errs = append(errs, errQuizNotFound)
	}
	if identity == "" {
		errs = append(errs, errNotAuthenticated)
	}
	// Ownership needs a resolved identity and an existing session, so it is
	// only checked once the base checks pass.
	if len(errs) == 0 && session.HostID != identity {
		errs = append(errs, errNotOwner)
	}

	if len(errs) > 0 {
		s.hub.Reject(conn, errs)
		return
	}

	s.hub.Attach(conn)
	s.sendWelcome(conn)

	log.Debug().Str("code", code).Str("host_id", identity).Msg("host connected to live quiz")
}

// HandlePlayerConnection admits a player connection. Players carry their
// previous socket ID in the socket query parameter when reconnecting, so
// their participant identity survives the socket change.
func (s *Service) HandlePlayerConnection(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	conn, err := s.hub.Upgrade(w, r, code, false)
	if err != nil {
		return
	}

	session, getErr := s.app.Get(code)
	if getErr != nil {
		s.hub.Reject(conn, []string{errQuizNotFound})
		return
	}

	s.hub.Attach(conn)
	s.sendWelcome(conn)

	oldSocket := r.URL.Query().Get("socket")
	participant := s.app.RegisterSocket(session, conn.ID, oldSocket)
	s.hub.Broadcast(code, wire.PlayerUpdate(participant.SocketID, participant.Name))

	log.Info().
		Str("code", code).
		Str("old_socket", oldSocket).
		Str("socket", conn.ID).
		Msg("player connected claiming socket")
}

// sendWelcome delivers the attach sequence: info acknowledgment, the cached
// last view command, and the current buzz status.
func (s *Service) sendWelcome(conn *Connection) {
	conn.SendMessage(wire.Info(infoConnected))

	if lastView, err := s.app.LastView(conn.Code); err == nil {
		conn.SendRaw(lastView)
	}
	if status, err := s.app.BuzzStatus(conn.Code); err == nil {
		conn.SendMessage(status)
	}
}

// EndSession broadcasts termination to the session's hub group and then
// deletes the session. The broadcast must come first: the group identity is
// derived from session state that Delete destroys.
func (s *Service) EndSession(code string) error {
	s.hub.Terminate(code)
	if err := s.app.Delete(code); err != nil {
		return err
	}
	s.publish(events.NewSessionTerminated(code))
	return nil
}
