package notify

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sazzad018/deshbord-sub000/internal/domain"
)

// fakeConn records frames written to it and can be flipped into a failing
// state to simulate a dead peer.
type fakeConn struct {
	mu         sync.Mutex
	frames     [][]byte
	pings      int
	failWrites bool
	closed     bool
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("write on dead connection")
	}
	if messageType == websocket.PingMessage {
		f.pings++
		return nil
	}
	f.frames = append(f.frames, append([]byte(nil), data...))
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) fail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites = true
}

func (f *fakeConn) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *fakeConn) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) lastFrame(t *testing.T) domain.Notification {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.frames)
	var n domain.Notification
	require.NoError(t, json.Unmarshal(f.frames[len(f.frames)-1], &n))
	return n
}

func testHub(t *testing.T) (*Hub, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	hub := NewHub(clock, DefaultHeartbeatInterval)
	t.Cleanup(func() { hub.Stop() })
	// Wait for the hub goroutine to arm its heartbeat ticker before any
	// test advances the clock.
	clock.BlockUntil(1)
	return hub, clock
}

func registerPeer(t *testing.T, hub *Hub, role domain.Role, subject string) (*Handle, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	h := NewHandle(role, subject, conn)
	hub.Register(h)
	return h, conn
}

// waitFor polls until cond returns true or the deadline is reached.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func testNotification(kind domain.NotificationKind) domain.Notification {
	return domain.Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     "test",
		Message:   "test message",
		Timestamp: time.Now().UTC(),
	}
}

func TestNotifyRoleIsolation(t *testing.T) {
	hub, _ := testHub(t)

	_, adminConn := registerPeer(t, hub, domain.RoleAdmin, domain.SubjectAnonymous)
	_, clientConn := registerPeer(t, hub, domain.RoleClient, "cust-42")

	delivered := hub.NotifyRole(domain.RoleAdmin, testNotification(domain.KindPaymentRequest))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, adminConn.frameCount())
	assert.Equal(t, 0, clientConn.frameCount())

	delivered = hub.NotifyRole(domain.RoleClient, testNotification(domain.KindPaymentApproved))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, adminConn.frameCount())
	assert.Equal(t, 1, clientConn.frameCount())
}

func TestNotifySubjectTargetsAllMatchesAcrossRoles(t *testing.T) {
	hub, _ := testHub(t)

	// Two tabs of the same customer plus an admin logged in as that customer.
	_, tab1 := registerPeer(t, hub, domain.RoleClient, "cust-42")
	_, tab2 := registerPeer(t, hub, domain.RoleClient, "cust-42")
	_, impersonating := registerPeer(t, hub, domain.RoleAdmin, "cust-42")
	_, bystander := registerPeer(t, hub, domain.RoleClient, "cust-99")

	delivered := hub.NotifySubject("cust-42", testNotification(domain.KindPaymentApproved))
	assert.Equal(t, 3, delivered)
	assert.Equal(t, 1, tab1.frameCount())
	assert.Equal(t, 1, tab2.frameCount())
	assert.Equal(t, 1, impersonating.frameCount())
	assert.Equal(t, 0, bystander.frameCount())
}

func TestNotifySubjectEmptySetIsNotAnError(t *testing.T) {
	hub, _ := testHub(t)

	_, conn := registerPeer(t, hub, domain.RoleClient, "cust-42")

	delivered := hub.NotifySubject("nobody-home", testNotification(domain.KindPaymentRejected))
	assert.Equal(t, 0, delivered)
	assert.Equal(t, 0, conn.frameCount())
}

func TestNotifySubjectNeverDoubleSendsInOneCall(t *testing.T) {
	hub, _ := testHub(t)

	_, conn := registerPeer(t, hub, domain.RoleClient, "cust-42")

	hub.NotifySubject("cust-42", testNotification(domain.KindPaymentApproved))
	assert.Equal(t, 1, conn.frameCount())
}

func TestDeadPeerDoesNotAbortDelivery(t *testing.T) {
	hub, _ := testHub(t)

	_, a := registerPeer(t, hub, domain.RoleAdmin, domain.SubjectAnonymous)
	_, b := registerPeer(t, hub, domain.RoleAdmin, domain.SubjectAnonymous)
	_, c := registerPeer(t, hub, domain.RoleAdmin, domain.SubjectAnonymous)

	b.fail()

	delivered := hub.NotifyRole(domain.RoleAdmin, testNotification(domain.KindPaymentRequest))
	assert.Equal(t, 2, delivered)
	assert.Equal(t, 1, a.frameCount())
	assert.Equal(t, 1, c.frameCount())

	// The failing peer is evicted, not retried.
	waitFor(t, func() bool { return hub.Stats()[domain.RoleAdmin] == 2 })
	assert.True(t, b.isClosed())

	delivered = hub.Broadcast(testNotification(domain.KindPaymentRequest))
	assert.Equal(t, 2, delivered)
}

func TestReconnectReplacesStaleHandle(t *testing.T) {
	hub, _ := testHub(t)

	stale := &fakeConn{}
	first := NewHandle(domain.RoleClient, "cust-42", stale)
	hub.Register(first)

	fresh := &fakeConn{}
	second := &Handle{id: first.id, role: domain.RoleClient, subject: "cust-42", alive: true, conn: fresh}
	hub.Register(second)

	assert.Equal(t, 1, hub.Stats()[domain.RoleClient])
	assert.True(t, stale.isClosed())

	delivered := hub.NotifySubject("cust-42", testNotification(domain.KindPaymentApproved))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 0, stale.frameCount())
	assert.Equal(t, 1, fresh.frameCount())
}

func TestHeartbeatReapsSilentPeerAfterTwoPeriods(t *testing.T) {
	hub, clock := testHub(t)

	_, conn := registerPeer(t, hub, domain.RoleClient, "cust-42")

	// First period: the peer is marked suspect and probed but kept.
	clock.Advance(DefaultHeartbeatInterval)
	waitFor(t, func() bool { return conn.pingCount() == 1 })
	assert.Equal(t, 1, hub.Stats()[domain.RoleClient])

	// Second period with no response: reaped.
	clock.Advance(DefaultHeartbeatInterval)
	waitFor(t, func() bool { return hub.Stats()[domain.RoleClient] == 0 })
	assert.True(t, conn.isClosed())
}

func TestBroadcastBetweenHeartbeatPeriodsWithDeadPeer(t *testing.T) {
	hub, clock := testHub(t)

	_, conn := registerPeer(t, hub, domain.RoleClient, "cust-42")

	clock.Advance(DefaultHeartbeatInterval)
	waitFor(t, func() bool { return conn.pingCount() == 1 })

	// The peer died silently after the first probe. A broadcast issued
	// between periods must not error; it just misses the dead peer.
	conn.fail()
	delivered := hub.Broadcast(testNotification(domain.KindPaymentRequest))
	assert.Equal(t, 0, delivered)

	waitFor(t, func() bool { return hub.Stats()[domain.RoleClient] == 0 })
	assert.True(t, conn.isClosed())
}

func TestHeartbeatKeepsResponsivePeer(t *testing.T) {
	hub, clock := testHub(t)

	h, conn := registerPeer(t, hub, domain.RoleAdmin, domain.SubjectAnonymous)

	for i := 1; i <= 3; i++ {
		clock.Advance(DefaultHeartbeatInterval)
		waitFor(t, func() bool { return conn.pingCount() == i })
		hub.Touch(h.ID())
		waitFor(t, func() bool { return hub.Stats()[domain.RoleAdmin] == 1 })
	}

	assert.Equal(t, 1, hub.Stats()[domain.RoleAdmin])
	assert.False(t, conn.isClosed())
}

func TestInboundPingGetsPongReply(t *testing.T) {
	hub, _ := testHub(t)

	h, conn := registerPeer(t, hub, domain.RoleClient, "cust-42")

	hub.HandleInbound(h.ID(), []byte(`{"type":"ping"}`))
	waitFor(t, func() bool { return conn.frameCount() == 1 })

	conn.mu.Lock()
	frame := string(conn.frames[0])
	conn.mu.Unlock()
	assert.JSONEq(t, `{"type":"pong"}`, frame)
}

func TestMalformedInboundMessageIsIgnored(t *testing.T) {
	hub, _ := testHub(t)

	h, conn := registerPeer(t, hub, domain.RoleClient, "cust-42")

	hub.HandleInbound(h.ID(), []byte(`not json at all`))
	hub.HandleInbound(h.ID(), []byte(`{"type":"something-else"}`))

	// Still registered and reachable.
	delivered := hub.NotifySubject("cust-42", testNotification(domain.KindPaymentApproved))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, conn.frameCount())
}

func TestInboundFrameMarksSuspectPeerAlive(t *testing.T) {
	hub, clock := testHub(t)

	h, conn := registerPeer(t, hub, domain.RoleClient, "cust-42")

	clock.Advance(DefaultHeartbeatInterval)
	waitFor(t, func() bool { return conn.pingCount() == 1 })

	// Any inbound frame counts as a probe response. The Stats round trip
	// guarantees the inbound command is processed before the next tick.
	hub.HandleInbound(h.ID(), []byte(`{"type":"something"}`))
	_ = hub.Stats()

	clock.Advance(DefaultHeartbeatInterval)
	waitFor(t, func() bool { return conn.pingCount() == 2 })
	assert.Equal(t, 1, hub.Stats()[domain.RoleClient])
}

func TestUnregisterIsImmediateAndIdempotent(t *testing.T) {
	hub, _ := testHub(t)

	h, conn := registerPeer(t, hub, domain.RoleAdmin, domain.SubjectAnonymous)

	hub.Unregister(h.ID())
	waitFor(t, func() bool { return hub.Stats()[domain.RoleAdmin] == 0 })
	assert.True(t, conn.isClosed())

	// Removing an already-absent handle is not an error.
	hub.Unregister(h.ID())
	assert.Equal(t, 0, hub.Stats()[domain.RoleAdmin])
}

func TestSendDirectReachesOnlyTargetHandle(t *testing.T) {
	hub, _ := testHub(t)

	h, conn := registerPeer(t, hub, domain.RoleClient, "cust-42")
	_, other := registerPeer(t, hub, domain.RoleAdmin, domain.SubjectAnonymous)

	hub.SendDirect(h.ID(), testNotification(domain.KindConnectionEstablished))
	waitFor(t, func() bool { return conn.frameCount() == 1 })

	n := conn.lastFrame(t)
	assert.Equal(t, domain.KindConnectionEstablished, n.Kind)
	assert.Equal(t, 0, other.frameCount())
}

func TestEndToEndPaymentScenario(t *testing.T) {
	hub, _ := testHub(t)

	_, adminConn := registerPeer(t, hub, domain.RoleAdmin, domain.SubjectAnonymous)
	_, clientConn := registerPeer(t, hub, domain.RoleClient, "cust-42")

	// A payment request lands: admins hear about it, the customer does not.
	delivered := hub.NotifyRole(domain.RoleAdmin, testNotification(domain.KindPaymentRequest))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, adminConn.frameCount())
	assert.Equal(t, 0, clientConn.frameCount())

	// The approval goes to the customer only; the admin's subject is
	// anonymous and unmatched.
	delivered = hub.NotifySubject("cust-42", testNotification(domain.KindPaymentApproved))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, adminConn.frameCount())
	assert.Equal(t, 1, clientConn.frameCount())
	assert.Equal(t, domain.KindPaymentApproved, clientConn.lastFrame(t).Kind)
}

func TestStopClosesAllConnections(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := NewHub(clock, DefaultHeartbeatInterval)
	clock.BlockUntil(1)

	_, a := registerPeer(t, hub, domain.RoleAdmin, domain.SubjectAnonymous)
	_, b := registerPeer(t, hub, domain.RoleClient, "cust-42")

	hub.Stop()

	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
}
