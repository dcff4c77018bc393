package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sazzad018/deshbord-sub000/internal/config"
	"github.com/sazzad018/deshbord-sub000/internal/domain"
	"github.com/sazzad018/deshbord-sub000/internal/notify"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

// stubApp panics on any call that a test did not stub out.
type stubApp struct {
	domain.AppService
}

func testServer(t *testing.T, app domain.AppService) (*Server, *httptest.Server, *notify.Hub) {
	t.Helper()

	clock := clockwork.NewFakeClock()
	hub := notify.NewHub(clock, notify.DefaultHeartbeatInterval)
	t.Cleanup(func() { hub.Stop() })

	cfg := &config.Config{AppEnv: "test", Port: "0", HeartbeatInterval: notify.DefaultHeartbeatInterval}
	srv := NewServer(cfg, app, hub, notify.NewBuilder(clock), fakePinger{}, clock)

	ts := httptest.NewServer(srv.echo)
	t.Cleanup(ts.Close)

	return srv, ts, hub
}

func dialSocket(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readNotification(t *testing.T, conn *websocket.Conn) domain.Notification {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var n domain.Notification
	require.NoError(t, json.Unmarshal(data, &n))
	return n
}

// waitForStats polls until the hub reports the expected count for a role.
func waitForStats(t *testing.T, hub *notify.Hub, role domain.Role, expected int) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if hub.Stats()[role] == expected {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("hub never reached %d connections for role %s", expected, role)
}

func TestWebSocketWelcomeOnConnect(t *testing.T) {
	_, ts, _ := testServer(t, stubApp{})

	conn := dialSocket(t, ts, "?role=client&userId=cust-42")

	welcome := readNotification(t, conn)
	assert.Equal(t, domain.KindConnectionEstablished, welcome.Kind)
}

func TestWebSocketRoleDefaultsToAdmin(t *testing.T) {
	_, ts, hub := testServer(t, stubApp{})

	conn := dialSocket(t, ts, "")
	readNotification(t, conn) // welcome

	waitForStats(t, hub, domain.RoleAdmin, 1)
	assert.Equal(t, 0, hub.Stats()[domain.RoleClient])
}

func TestWebSocketUnknownRoleFallsBackToAdmin(t *testing.T) {
	_, ts, hub := testServer(t, stubApp{})

	conn := dialSocket(t, ts, "?role=superuser")
	readNotification(t, conn)

	waitForStats(t, hub, domain.RoleAdmin, 1)
}

func TestWebSocketClientRoleRegistration(t *testing.T) {
	_, ts, hub := testServer(t, stubApp{})

	conn := dialSocket(t, ts, "?role=client&userId=cust-42")
	readNotification(t, conn)

	waitForStats(t, hub, domain.RoleClient, 1)

	delivered := hub.NotifySubject("cust-42", domain.Notification{
		ID:   "n-1",
		Kind: domain.KindPaymentApproved,
	})
	assert.Equal(t, 1, delivered)

	n := readNotification(t, conn)
	assert.Equal(t, domain.KindPaymentApproved, n.Kind)
}

func TestWebSocketApplicationPingPong(t *testing.T) {
	_, ts, _ := testServer(t, stubApp{})

	conn := dialSocket(t, ts, "?role=client&userId=cust-42")
	readNotification(t, conn) // welcome

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(data))
}

func TestWebSocketDisconnectRemovesHandleImmediately(t *testing.T) {
	_, ts, hub := testServer(t, stubApp{})

	conn := dialSocket(t, ts, "?role=client&userId=cust-42")
	readNotification(t, conn)
	waitForStats(t, hub, domain.RoleClient, 1)

	conn.Close()
	waitForStats(t, hub, domain.RoleClient, 0)
}

func TestConnectionStatsEndpoint(t *testing.T) {
	_, ts, hub := testServer(t, stubApp{})

	admin := dialSocket(t, ts, "")
	readNotification(t, admin)
	client := dialSocket(t, ts, "?role=client&userId=cust-42")
	readNotification(t, client)

	waitForStats(t, hub, domain.RoleAdmin, 1)
	waitForStats(t, hub, domain.RoleClient, 1)

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 1, stats["admins"])
	assert.Equal(t, 1, stats["clients"])
}
