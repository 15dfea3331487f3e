package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/livequiz/go/internal/wire"
)

// AuthTag restricts who may invoke a message type.
type AuthTag int

const (
	// AuthAny allows any attached connection.
	AuthAny AuthTag = iota
	// AuthHostOnly allows only the session's host connection.
	AuthHostOnly
)

// Handler executes one inbound client message. Construction validates the
// payload; Handle performs the state mutation and any broadcasts.
type Handler interface {
	Handle(conn *Connection) error
}

// HandlerFactory builds a handler from a raw message payload. It returns
// ErrMalformedPayload (wrapped) when required fields are missing or invalid.
type HandlerFactory func(payload json.RawMessage) (Handler, error)

type route struct {
	factory HandlerFactory
	auth    AuthTag
}

// Router is the static registry mapping message types to handlers. It is
// built once at startup; duplicate registrations are a programming error
// and panic immediately rather than surfacing at dispatch time.
type Router struct {
	routes map[string]route
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]route)}
}

// Register adds a message type to the table. Panics on duplicate keys.
func (r *Router) Register(msgType string, auth AuthTag, factory HandlerFactory) {
	if _, exists := r.routes[msgType]; exists {
		panic(fmt.Sprintf("gateway: message type %q registered twice", msgType))
	}
	r.routes[msgType] = route{factory: factory, auth: auth}
}

// envelope is the inbound wire frame. Pointer fields distinguish absent
// from zero-valued.
type envelope struct {
	Type    *string         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch routes one raw inbound message to its handler. Every failure is
// converted to an error envelope sent back to the originating connection
// only; one bad message never takes down the connection or the session.
func (r *Router) Dispatch(conn *Connection, raw []byte) {
	if err := r.dispatch(conn, raw); err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", conn.ID).
			Str("code", conn.Code).
			Msg("failed to handle message")

		conn.SendMessage(wire.Error([]string{
			fmt.Sprintf("Failed to handle message %s: %v", raw, err),
		}))
	}
}

func (r *Router) dispatch(conn *Connection, raw []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()

	var env envelope
	if jsonErr := json.Unmarshal(raw, &env); jsonErr != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, jsonErr)
	}
	if env.Type == nil || env.Payload == nil {
		return ErrMalformedEnvelope
	}

	rt, ok := r.routes[*env.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, *env.Type)
	}

	if rt.auth == AuthHostOnly && !conn.IsHost {
		return fmt.Errorf("%w: %q", ErrUnauthorized, *env.Type)
	}

	handler, err := rt.factory(env.Payload)
	if err != nil {
		return err
	}

	return handler.Handle(conn)
}
