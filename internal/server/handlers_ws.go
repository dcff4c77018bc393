package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sazzad018/deshbord-sub000/internal/domain"
	"github.com/sazzad018/deshbord-sub000/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard and client portal are served from other origins
	},
}

// parseRole maps the handshake role parameter to an audience. Anything
// missing or unrecognized falls back to admin: fewer, more-trusted
// recipients.
func parseRole(raw string) domain.Role {
	if raw == string(domain.RoleClient) {
		return domain.RoleClient
	}
	return domain.RoleAdmin
}

// handleNotificationSocket is the connection acceptor. Role and subject come
// from the handshake query parameters (?role=admin|client&userId=...), never
// from message payloads, so a connection is routable from the moment it is
// registered.
func (s *Server) handleNotificationSocket(c echo.Context) error {
	role := parseRole(c.QueryParam("role"))
	subject := c.QueryParam("userId")
	if subject == "" {
		subject = domain.SubjectAnonymous
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	handle := notify.NewHandle(role, subject, conn)

	// A websocket-level pong counts as a probe response.
	conn.SetPongHandler(func(string) error {
		s.hub.Touch(handle.ID())
		return nil
	})

	s.hub.Register(handle)

	// Welcome goes straight to the new handle, bypassing role matching, so
	// the peer gets end-to-end confirmation immediately.
	s.hub.SendDirect(handle.ID(), s.builder.ConnectionEstablished())

	// Read pump — blocks until the connection closes. Every inbound frame
	// counts as liveness; the hub answers application-level pings.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		s.hub.HandleInbound(handle.ID(), data)
	}

	// An explicit close or transport error is a certain signal of death, so
	// removal is immediate rather than deferred to the next heartbeat tick.
	s.hub.Unregister(handle.ID())

	return nil
}

// handleConnectionStats reports live-connection counts per role.
func (s *Server) handleConnectionStats(c echo.Context) error {
	counts := s.hub.Stats()
	return c.JSON(http.StatusOK, map[string]any{
		"admins":  counts[domain.RoleAdmin],
		"clients": counts[domain.RoleClient],
	})
}
