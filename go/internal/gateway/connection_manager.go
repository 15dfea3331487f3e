package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/livequiz/go/internal/wire"
)

// MessageSink receives inbound client messages from connection read pumps.
type MessageSink interface {
	Dispatch(conn *Connection, raw []byte)
}

// ConnectionManager manages the websocket hub of each live session. One
// broadcast group exists per session code; every event broadcast to a group
// is delivered to all attached connections in issue order.
type ConnectionManager struct {
	// Connection pools organized by session code
	groups map[string]map[*Connection]bool
	mu     sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig
	sink     MessageSink

	broadcastCh chan broadcastMessage
	done        chan struct{}
}

// Connection represents a websocket connection attached to a live session.
type Connection struct {
	ID      string
	Code    string
	IsHost  bool
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time
	LastPing    time.Time

	sendMu sync.Mutex
	closed bool
}

// ConnectionConfig holds configuration for websocket connections.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// broadcastMessage is one event destined for every connection of a group.
// terminate additionally instructs those connections to close after the
// payload is delivered.
type broadcastMessage struct {
	code      string
	data      []byte
	terminate bool
}

// DefaultConnectionConfig returns default websocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// GroupName returns the hub group identity for a session code.
func GroupName(code string) string {
	return fmt.Sprintf("livequiz_group_%s", code)
}

// NewConnectionManager creates a hub manager. The sink receives every
// inbound client message; it must be set before Start.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		groups: make(map[string]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcastMessage, 1000),
		done:        make(chan struct{}),
	}
}

// SetSink installs the inbound message sink. Must be called before any
// connection is attached.
func (cm *ConnectionManager) SetSink(sink MessageSink) {
	cm.sink = sink
}

// Start begins processing broadcast messages until Stop is called. Running
// all broadcasts through one goroutine is what guarantees per-group
// delivery order.
func (cm *ConnectionManager) Start() {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-cm.done:
			log.Info().Msg("connection manager shutting down")
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// Stop terminates the broadcast loop.
func (cm *ConnectionManager) Stop() {
	close(cm.done)
}

// Upgrade performs the websocket handshake and returns an unattached
// connection. Accepting the transport first lets admission errors be
// delivered over the socket before it is closed.
func (cm *ConnectionManager) Upgrade(w http.ResponseWriter, r *http.Request, code string, isHost bool) (*Connection, error) {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade websocket connection")
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	return &Connection{
		ID:          uuid.New().String(),
		Code:        code,
		IsHost:      isHost,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}, nil
}

// Reject delivers admission errors on an unattached connection and closes
// it. Never partial-accept: the whole error list goes out in one envelope.
func (cm *ConnectionManager) Reject(conn *Connection, errs []string) {
	log.Warn().
		Str("code", conn.Code).
		Strs("errors", errs).
		Msg("connection rejected")

	data, err := json.Marshal(wire.Error(errs))
	if err == nil {
		conn.Conn.SetWriteDeadline(time.Now().Add(cm.config.WriteTimeout))
		_ = conn.Conn.WriteMessage(websocket.TextMessage, data)
	}
	conn.Conn.Close()
}

// Attach registers the connection with its session's group and starts its
// read and write pumps.
func (cm *ConnectionManager) Attach(conn *Connection) {
	cm.mu.Lock()
	if cm.groups[conn.Code] == nil {
		cm.groups[conn.Code] = make(map[*Connection]bool)
	}
	cm.groups[conn.Code][conn] = true
	total := len(cm.groups[conn.Code])
	cm.mu.Unlock()

	go conn.writePump()
	go conn.readPump()

	log.Info().
		Str("connection_id", conn.ID).
		Str("group", GroupName(conn.Code)).
		Bool("is_host", conn.IsHost).
		Int("total_connections", total).
		Msg("connection attached")
}

// Detach removes a connection from its group. Detaching an unattached or
// already-detached connection is a no-op.
func (cm *ConnectionManager) Detach(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.detachLocked(conn)
}

func (cm *ConnectionManager) detachLocked(conn *Connection) {
	connections, exists := cm.groups[conn.Code]
	if !exists || !connections[conn] {
		return
	}
	delete(connections, conn)
	if len(connections) == 0 {
		delete(cm.groups, conn.Code)
	}

	conn.sendMu.Lock()
	conn.closed = true
	close(conn.Send)
	conn.sendMu.Unlock()

	log.Info().
		Str("connection_id", conn.ID).
		Str("group", GroupName(conn.Code)).
		Msg("connection detached")
}

// Broadcast fans an event out to every connection attached to the session's
// group, the originator included.
func (cm *ConnectionManager) Broadcast(code string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	select {
	case cm.broadcastCh <- broadcastMessage{code: code, data: data}:
	default:
		log.Warn().Str("group", GroupName(code)).Msg("broadcast channel full, dropping message")
	}
}

// Terminate delivers the terminated envelope to every connection of the
// group and instructs each to close once it is sent.
func (cm *ConnectionManager) Terminate(code string) {
	data, err := json.Marshal(wire.Terminated())
	if err != nil {
		return
	}

	select {
	case cm.broadcastCh <- broadcastMessage{code: code, data: data, terminate: true}:
	default:
		// The terminate signal must not be lost; block until the broadcast
		// loop drains the channel, unless the manager has already stopped
		// and nothing will drain it.
		select {
		case cm.broadcastCh <- broadcastMessage{code: code, data: data, terminate: true}:
		case <-cm.done:
		}
	}
}

// handleBroadcast processes one broadcast message on the hub goroutine.
func (cm *ConnectionManager) handleBroadcast(message broadcastMessage) {
	cm.mu.RLock()
	connections := cm.groups[message.code]
	targets := make([]*Connection, 0, len(connections))
	for conn := range connections {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range targets {
		if !conn.enqueue(message.data) {
			// Connection is slow or dead; drop it rather than block the
			// rest of the group.
			log.Warn().
				Str("connection_id", conn.ID).
				Msg("connection send buffer full, closing connection")
			cm.Detach(conn)
			conn.Conn.Close()
		}
	}

	if message.terminate {
		cm.mu.Lock()
		for _, conn := range targets {
			cm.detachLocked(conn)
		}
		cm.mu.Unlock()
	}

	log.Debug().
		Str("group", GroupName(message.code)).
		Int("connections", len(targets)).
		Bool("terminate", message.terminate).
		Msg("event broadcasted")
}

// Stats returns statistics about active connections per group.
func (cm *ConnectionManager) Stats() map[string]interface{} {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	total := 0
	groupCounts := make(map[string]int)
	for code, connections := range cm.groups {
		groupCounts[GroupName(code)] = len(connections)
		total += len(connections)
	}

	return map[string]interface{}{
		"total_connections": total,
		"active_sessions":   len(cm.groups),
		"group_connections": groupCounts,
	}
}

// SendMessage marshals and queues an envelope for this connection only.
// Delivery failures to a torn-down connection are swallowed; the underlying
// state mutation has already happened.
func (c *Connection) SendMessage(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to marshal message")
		return
	}
	if !c.enqueue(data) {
		log.Warn().Str("connection_id", c.ID).Msg("dropping message to torn-down connection")
	}
}

// SendRaw queues pre-marshaled bytes for this connection only.
func (c *Connection) SendRaw(data []byte) {
	if !c.enqueue(data) {
		log.Warn().Str("connection_id", c.ID).Msg("dropping message to torn-down connection")
	}
}

// enqueue places data on the send queue. Returns false if the connection is
// closed or its buffer is full.
func (c *Connection) enqueue(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// writePump handles sending messages to the websocket connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.Detach(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				// Channel was closed after any terminate payload drained
				c.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			c.LastPing = time.Now()
		}
	}
}

// readPump reads client messages and hands them to the dispatch sink.
func (c *Connection) readPump() {
	defer func() {
		c.Manager.Detach(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected websocket close error")
			}
			break
		}

		c.Manager.sink.Dispatch(c, message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
