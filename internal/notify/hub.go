package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sazzad018/deshbord-sub000/internal/domain"
	"github.com/sazzad018/deshbord-sub000/internal/metrics"
)

const (
	DefaultHeartbeatInterval = 30 * time.Second

	commandBufferSize = 256
	stopTimeout       = 10 * time.Second
)

type audience int

const (
	audienceRole audience = iota
	audienceSubject
	audienceAll
)

// hubCmd is the command interface for the Hub actor.
type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registerCmd struct {
	baseHubCmd
	handle *Handle
	doneCh chan struct{}
}

type unregisterCmd struct {
	baseHubCmd
	id uuid.UUID
}

type touchCmd struct {
	baseHubCmd
	id uuid.UUID
}

type inboundCmd struct {
	baseHubCmd
	id   uuid.UUID
	data []byte
}

type sendDirectCmd struct {
	baseHubCmd
	id           uuid.UUID
	notification domain.Notification
}

type dispatchCmd struct {
	baseHubCmd
	audience     audience
	role         domain.Role
	subject      string
	notification domain.Notification
	replyCh      chan int
}

type statsCmd struct {
	baseHubCmd
	replyCh chan map[domain.Role]int
}

type stopCmd struct {
	baseHubCmd
}

// Hub routes notifications to connected dashboard peers. A single goroutine
// owns the registry and performs every connection write, so no mutexes are
// needed and gorilla's single-writer rule holds. A heartbeat ticker marks
// every peer suspect once per interval and reaps peers that failed to answer
// the previous probe.
type Hub struct {
	cmdCh             chan hubCmd
	clock             clockwork.Clock
	handles           *registry
	heartbeatInterval time.Duration
	done              chan struct{}
}

// NewHub creates and starts the hub actor. heartbeatInterval <= 0 falls back
// to DefaultHeartbeatInterval.
func NewHub(clock clockwork.Clock, heartbeatInterval time.Duration) *Hub {
	if heartbeatInterval <= 0 {
		heartbeatInterval = DefaultHeartbeatInterval
	}
	hub := &Hub{
		cmdCh:             make(chan hubCmd, commandBufferSize),
		clock:             clock,
		handles:           newRegistry(),
		heartbeatInterval: heartbeatInterval,
		done:              make(chan struct{}),
	}
	go hub.run()
	return hub
}

// Register adds a handle to the registry. Blocks until the hub has processed
// the registration, so a welcome sent immediately afterwards finds the handle.
func (hub *Hub) Register(h *Handle) {
	doneCh := make(chan struct{})
	hub.cmdCh <- registerCmd{handle: h, doneCh: doneCh}
	<-doneCh
}

// Unregister removes a handle and closes its transport. Idempotent; called by
// the acceptor on read-pump exit, which is a certain signal of death.
func (hub *Hub) Unregister(id uuid.UUID) {
	hub.cmdCh <- unregisterCmd{id: id}
}

// Touch marks a handle alive. Any inbound frame counts as a probe response.
func (hub *Hub) Touch(id uuid.UUID) {
	hub.cmdCh <- touchCmd{id: id}
}

// HandleInbound processes an application message from a peer. The frame marks
// the peer alive; a {"type":"ping"} message elicits a {"type":"pong"} reply.
// Malformed messages are ignored.
func (hub *Hub) HandleInbound(id uuid.UUID, data []byte) {
	hub.cmdCh <- inboundCmd{id: id, data: data}
}

// SendDirect delivers a notification to one specific handle, bypassing
// role and subject matching. Used for the connection-established welcome.
func (hub *Hub) SendDirect(id uuid.UUID, n domain.Notification) {
	hub.cmdCh <- sendDirectCmd{id: id, notification: n}
}

// NotifyRole delivers a notification to every handle registered under role
// and returns how many peers actually received it.
func (hub *Hub) NotifyRole(role domain.Role, n domain.Notification) int {
	return hub.dispatch(dispatchCmd{audience: audienceRole, role: role, notification: n})
}

// NotifySubject delivers a notification to every handle whose subject
// matches, regardless of role. Zero matches is not an error.
func (hub *Hub) NotifySubject(subject string, n domain.Notification) int {
	return hub.dispatch(dispatchCmd{audience: audienceSubject, subject: subject, notification: n})
}

// Broadcast delivers a notification to every registered handle.
func (hub *Hub) Broadcast(n domain.Notification) int {
	return hub.dispatch(dispatchCmd{audience: audienceAll, notification: n})
}

func (hub *Hub) dispatch(c dispatchCmd) int {
	c.replyCh = make(chan int, 1)
	hub.cmdCh <- c
	return <-c.replyCh
}

// Stats returns the current live-connection count per role.
func (hub *Hub) Stats() map[domain.Role]int {
	replyCh := make(chan map[domain.Role]int, 1)
	hub.cmdCh <- statsCmd{replyCh: replyCh}
	return <-replyCh
}

// Stop shuts the hub down, closing all connections. Blocks until the hub
// goroutine has drained its current work or the stop timeout is reached.
func (hub *Hub) Stop() {
	hub.cmdCh <- stopCmd{}

	timer := hub.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-hub.done:
		slog.Info("Notification hub stopped")
	case <-timer.Chan():
		slog.Warn("Notification hub stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (hub *Hub) run() {
	ticker := hub.clock.NewTicker(hub.heartbeatInterval)
	defer ticker.Stop()
	defer close(hub.done)

	for {
		select {
		case cmd := <-hub.cmdCh:
			switch c := cmd.(type) {
			case registerCmd:
				hub.handleRegister(c)
			case unregisterCmd:
				hub.evict(c.id)
			case touchCmd:
				hub.handleTouch(c.id)
			case inboundCmd:
				hub.handleInbound(c)
			case sendDirectCmd:
				hub.handleSendDirect(c)
			case dispatchCmd:
				hub.handleDispatch(c)
			case statsCmd:
				c.replyCh <- hub.handles.counts()
			case stopCmd:
				hub.handleStop()
				return
			default:
				slog.Warn("Hub received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
			}
		case <-ticker.Chan():
			hub.handleTick()
		}
	}
}

func (hub *Hub) handleRegister(c registerCmd) {
	hub.handles.add(c.handle)
	hub.updateGauges()
	slog.Debug("Peer registered",
		"conn_id", c.handle.id.String(),
		"role", string(c.handle.role),
		"subject", c.handle.subject,
	)
	close(c.doneCh)
}

func (hub *Hub) handleTouch(id uuid.UUID) {
	if h := hub.handles.get(id); h != nil {
		h.alive = true
	}
}

func (hub *Hub) handleInbound(c inboundCmd) {
	h := hub.handles.get(c.id)
	if h == nil {
		return
	}
	h.alive = true

	var msg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(c.data, &msg); err != nil {
		slog.Debug("Ignoring malformed peer message", "conn_id", c.id.String(), "error", err)
		return
	}
	if msg.Type != "ping" {
		return
	}
	if err := h.write(hub.clock, []byte(`{"type":"pong"}`)); err != nil {
		hub.evictFailed(c.id)
	}
}

func (hub *Hub) handleSendDirect(c sendDirectCmd) {
	h := hub.handles.get(c.id)
	if h == nil {
		return
	}
	data, err := json.Marshal(c.notification)
	if err != nil {
		slog.Error("Failed to marshal notification", "error", err)
		return
	}
	if err := h.write(hub.clock, data); err != nil {
		hub.evictFailed(c.id)
		return
	}
	metrics.NotificationsDeliveredTotal.WithLabelValues(string(c.notification.Kind), "direct").Inc()
}

func (hub *Hub) handleDispatch(c dispatchCmd) {
	data, err := json.Marshal(c.notification)
	if err != nil {
		slog.Error("Failed to marshal notification", "error", err)
		c.replyCh <- 0
		return
	}

	delivered := 0
	var failed []uuid.UUID
	visit := func(h *Handle) {
		if err := h.write(hub.clock, data); err != nil {
			failed = append(failed, h.id)
			return
		}
		delivered++
	}

	var label string
	switch c.audience {
	case audienceRole:
		label = "role"
		hub.handles.forEachInRole(c.role, visit)
	case audienceSubject:
		label = "subject"
		hub.handles.forEachWhereSubject(c.subject, visit)
	case audienceAll:
		label = "broadcast"
		hub.handles.forEachAll(visit)
	}

	// A dead peer never aborts delivery to the rest; it is evicted after the
	// fan-out completes.
	for _, id := range failed {
		hub.evictFailed(id)
	}

	metrics.NotificationsDeliveredTotal.WithLabelValues(string(c.notification.Kind), label).Add(float64(delivered))
	c.replyCh <- delivered
}

// handleTick runs one heartbeat cycle: peers still suspect from the previous
// cycle are reaped, everyone else is pessimistically marked suspect and
// probed. One missed probe is tolerated (network jitter); two consecutive
// misses mean a dead peer.
func (hub *Hub) handleTick() {
	var dead []uuid.UUID
	hub.handles.forEachAll(func(h *Handle) {
		if !h.alive {
			dead = append(dead, h.id)
			return
		}
		h.alive = false
		if err := h.ping(hub.clock); err != nil {
			dead = append(dead, h.id)
		}
	})

	for _, id := range dead {
		slog.Debug("Reaping unresponsive peer", "conn_id", id.String())
		metrics.NotifyPeersReapedTotal.Inc()
		hub.evict(id)
	}
}

// evict closes a handle's transport and removes it from the registry.
// Removing an already-absent handle is a no-op.
func (hub *Hub) evict(id uuid.UUID) {
	h := hub.handles.get(id)
	if h == nil {
		return
	}
	h.close()
	hub.handles.remove(id)
	hub.updateGauges()
	slog.Debug("Peer removed", "conn_id", id.String(), "role", string(h.role))
}

func (hub *Hub) evictFailed(id uuid.UUID) {
	metrics.NotifySendFailuresTotal.Inc()
	slog.Debug("Evicting peer after failed write", "conn_id", id.String())
	hub.evict(id)
}

func (hub *Hub) handleStop() {
	count := 0
	hub.handles.forEachAll(func(h *Handle) {
		h.close()
		hub.handles.remove(h.id)
		count++
	})
	hub.updateGauges()
	slog.Info("Notification hub shutting down", "disconnected_peers", count)
}

func (hub *Hub) updateGauges() {
	counts := hub.handles.counts()
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleClient} {
		metrics.NotifyConnectedPeers.WithLabelValues(string(role)).Set(float64(counts[role]))
	}
}
