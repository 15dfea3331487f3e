// Package wire defines the JSON envelope exchanged with live quiz clients.
// Every message, inbound or outbound, is {"type": <string>, "payload": ...}.
// The type strings and payload shapes are client-visible contracts.
package wire

// Outbound message types (server -> client).
const (
	TypeError        = "error"
	TypeInfo         = "info"
	TypeSetView      = "set view"
	TypeTerminated   = "terminated"
	TypeBuzzEvent    = "buzz event"
	TypePlayerUpdate = "player update"
)

// Inbound message types (client -> server).
const (
	TypeManageBuzz = "manage buzz"
	TypeBuzzIn     = "buzz in"
)

// Buzz event statuses carried in the buzz event payload.
const (
	BuzzNone   = "none"
	BuzzOpen   = "open"
	BuzzClosed = "closed"
)

// Message is the generic envelope for every server-to-client message.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ViewPayload is the payload of a "set view" message.
type ViewPayload struct {
	View string      `json:"view"`
	Data interface{} `json:"data"`
}

// BuzzPayload is the payload of a "buzz event" message. Socket and Name are
// present only when the status is closed.
type BuzzPayload struct {
	Status string `json:"status"`
	Socket string `json:"socket,omitempty"`
	Name   string `json:"name,omitempty"`
}

// PlayerPayload is the payload of a "player update" message.
type PlayerPayload struct {
	Name   string `json:"name"`
	Socket string `json:"socket"`
}

// Error wraps a list of human-readable error strings.
func Error(errs []string) Message {
	return Message{Type: TypeError, Payload: errs}
}

// Info wraps a message which is not necessarily bad.
func Info(msg string) Message {
	return Message{Type: TypeInfo, Payload: msg}
}

// SetView tells the client what it should be looking at.
func SetView(view string, data interface{}) Message {
	return Message{Type: TypeSetView, Payload: ViewPayload{View: view, Data: data}}
}

// Terminated announces that the quiz is over. The server closes the
// connection after delivering it.
func Terminated() Message {
	return Message{Type: TypeTerminated, Payload: struct{}{}}
}

// BuzzNoneEvent reports that no buzz event is active.
func BuzzNoneEvent() Message {
	return Message{Type: TypeBuzzEvent, Payload: BuzzPayload{Status: BuzzNone}}
}

// BuzzOpenEvent reports an open, unclaimed buzz event.
func BuzzOpenEvent() Message {
	return Message{Type: TypeBuzzEvent, Payload: BuzzPayload{Status: BuzzOpen}}
}

// BuzzClosedEvent reports a resolved buzz event with its winner.
func BuzzClosedEvent(socket, name string) Message {
	return Message{Type: TypeBuzzEvent, Payload: BuzzPayload{Status: BuzzClosed, Socket: socket, Name: name}}
}

// PlayerUpdate reports a participant's current name and socket.
func PlayerUpdate(socket, name string) Message {
	return Message{Type: TypePlayerUpdate, Payload: PlayerPayload{Name: name, Socket: socket}}
}
