package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Realtime notifications (WebSocket)
	s.echo.GET("/ws", s.handleNotificationSocket)
	s.echo.GET("/api/stats", s.handleConnectionStats)

	// Clients
	s.echo.POST("/api/clients", s.handleCreateClient)
	s.echo.GET("/api/clients", s.handleListClients)
	s.echo.GET("/api/clients/:id", s.handleGetClient)
	s.echo.PUT("/api/clients/:id", s.handleUpdateClient)
	s.echo.DELETE("/api/clients/:id", s.handleDeleteClient)

	// Projects
	s.echo.POST("/api/projects", s.handleCreateProject)
	s.echo.GET("/api/projects", s.handleListProjects)
	s.echo.GET("/api/projects/:id", s.handleGetProject)
	s.echo.PUT("/api/projects/:id", s.handleUpdateProject)
	s.echo.DELETE("/api/projects/:id", s.handleDeleteProject)

	// Invoices
	s.echo.POST("/api/invoices", s.handleCreateInvoice)
	s.echo.GET("/api/invoices", s.handleListInvoices)
	s.echo.GET("/api/invoices/:id", s.handleGetInvoice)
	s.echo.PATCH("/api/invoices/:id/status", s.handleUpdateInvoiceStatus)
	s.echo.DELETE("/api/invoices/:id", s.handleDeleteInvoice)

	// Payment requests
	s.echo.POST("/api/payment-requests", s.handleCreatePaymentRequest)
	s.echo.GET("/api/payment-requests", s.handleListPaymentRequests)
	s.echo.GET("/api/payment-requests/:id", s.handleGetPaymentRequest)
	s.echo.POST("/api/payment-requests/:id/approve", s.handleApprovePaymentRequest)
	s.echo.POST("/api/payment-requests/:id/reject", s.handleRejectPaymentRequest)
}
