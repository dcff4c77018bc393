package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/sazzad018/deshbord-sub000/internal/domain"
)

const writeDeadline = 5 * time.Second

// transport is the send/close capability of one connected peer.
// Satisfied by *websocket.Conn; narrowed so tests can substitute a dead peer.
type transport interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Handle represents one live connected peer. Role and subject are assigned
// once at handshake and immutable thereafter. The alive flag is owned by the
// hub goroutine; nothing outside the actor reads or writes it.
type Handle struct {
	id      uuid.UUID
	role    domain.Role
	subject string
	alive   bool
	conn    transport
}

// NewHandle wraps an accepted connection. The handle is inert until
// registered with the hub.
func NewHandle(role domain.Role, subject string, conn transport) *Handle {
	return &Handle{
		id:      uuid.New(),
		role:    role,
		subject: subject,
		alive:   true,
		conn:    conn,
	}
}

func (h *Handle) ID() uuid.UUID     { return h.id }
func (h *Handle) Role() domain.Role { return h.role }
func (h *Handle) Subject() string   { return h.subject }

// write sends a text frame with a bounded deadline. Called only from the hub
// goroutine, which is the sole writer for every registered connection.
func (h *Handle) write(clock clockwork.Clock, data []byte) error {
	_ = h.conn.SetWriteDeadline(clock.Now().Add(writeDeadline))
	return h.conn.WriteMessage(websocket.TextMessage, data)
}

// ping sends a websocket-level liveness probe.
func (h *Handle) ping(clock clockwork.Clock) error {
	_ = h.conn.SetWriteDeadline(clock.Now().Add(writeDeadline))
	return h.conn.WriteMessage(websocket.PingMessage, nil)
}

func (h *Handle) close() {
	_ = h.conn.Close()
}
