package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/livequiz/go/internal/events"
	"github.com/mcdev12/livequiz/go/internal/live"
	"github.com/mcdev12/livequiz/go/internal/models"
	"github.com/mcdev12/livequiz/go/internal/wire"
)

// Buzz management actions accepted in the "manage buzz" payload.
const (
	buzzActionStart = "start"
	buzzActionEnd   = "end"
)

// NewDefaultRouter returns the router with every recognized message type
// registered: "set view" and "manage buzz" for hosts, "buzz in" for anyone.
func NewDefaultRouter(app *live.App, hub *ConnectionManager, publisher events.Publisher) *Router {
	r := NewRouter()
	r.Register(wire.TypeSetView, AuthHostOnly, setViewFactory(app, hub))
	r.Register(wire.TypeManageBuzz, AuthHostOnly, manageBuzzFactory(app, hub))
	r.Register(wire.TypeBuzzIn, AuthAny, buzzInFactory(app, hub, publisher))
	return r
}

// setViewHandler transitions the session view and broadcasts the resulting
// view command to the whole group.
type setViewHandler struct {
	app *live.App
	hub *ConnectionManager

	view       models.ViewName
	questionID int64
}

type setViewPayload struct {
	View       *string `json:"view"`
	QuestionID *int64  `json:"question_id"`
}

func setViewFactory(app *live.App, hub *ConnectionManager) HandlerFactory {
	return func(payload json.RawMessage) (Handler, error) {
		var p setViewPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		if p.View == nil {
			return nil, fmt.Errorf("%w: missing view", ErrMalformedPayload)
		}

		view := models.ViewName(*p.View)
		if (view == models.ViewQuestion || view == models.ViewAnswer) && p.QuestionID == nil {
			return nil, fmt.Errorf("%w: view %q requires question_id", ErrMalformedPayload, view)
		}

		h := &setViewHandler{app: app, hub: hub, view: view}
		if p.QuestionID != nil {
			h.questionID = *p.QuestionID
		}
		return h, nil
	}
}

func (h *setViewHandler) Handle(conn *Connection) error {
	cmd, err := h.app.SetView(conn.Code, h.view, h.questionID)
	if err != nil {
		return err
	}
	h.hub.Broadcast(conn.Code, cmd)
	return nil
}

// manageBuzzHandler starts or ends the buzz event and broadcasts the new
// buzz status to the whole group.
type manageBuzzHandler struct {
	app *live.App
	hub *ConnectionManager

	action string
}

type manageBuzzPayload struct {
	Action *string `json:"action"`
}

func manageBuzzFactory(app *live.App, hub *ConnectionManager) HandlerFactory {
	return func(payload json.RawMessage) (Handler, error) {
		var p manageBuzzPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		if p.Action == nil || (*p.Action != buzzActionStart && *p.Action != buzzActionEnd) {
			return nil, fmt.Errorf("%w: action must be %q or %q", ErrMalformedPayload, buzzActionStart, buzzActionEnd)
		}
		return &manageBuzzHandler{app: app, hub: hub, action: *p.Action}, nil
	}
}

func (h *manageBuzzHandler) Handle(conn *Connection) error {
	var (
		status wire.Message
		err    error
	)
	if h.action == buzzActionStart {
		status, err = h.app.StartBuzz(conn.Code)
	} else {
		status, err = h.app.EndBuzz(conn.Code)
	}
	if err != nil {
		return err
	}
	h.hub.Broadcast(conn.Code, status)
	return nil
}

// buzzInHandler attempts a first-buzzer-wins claim. Only the attempt that
// closes the event produces a broadcast; rejected attempts are silent
// no-ops, not errors.
type buzzInHandler struct {
	app       *live.App
	hub       *ConnectionManager
	publisher events.Publisher
}

func buzzInFactory(app *live.App, hub *ConnectionManager, publisher events.Publisher) HandlerFactory {
	return func(json.RawMessage) (Handler, error) {
		// Payload is ignored.
		return &buzzInHandler{app: app, hub: hub, publisher: publisher}, nil
	}
}

func (h *buzzInHandler) Handle(conn *Connection) error {
	accepted, status, err := h.app.AttemptBuzz(conn.Code, conn.ID)
	if err != nil {
		return err
	}
	if !accepted {
		return nil
	}

	h.hub.Broadcast(conn.Code, status)

	if h.publisher != nil {
		winner, ok := status.Payload.(wire.BuzzPayload)
		if ok {
			event := events.NewBuzzWon(conn.Code, winner.Socket, winner.Name)
			if err := h.publisher.Publish(context.Background(), event); err != nil {
				log.Error().Err(err).Str("code", conn.Code).Msg("failed to publish buzz event")
			}
		}
	}
	return nil
}
