// Package server implements the HTTP server using Echo framework.
//
// Routes: REST CRUD for clients/projects/invoices/payment-requests, the
// WebSocket notification endpoint, health checks, connection stats, and
// Prometheus metrics. Handlers split by concern: handlers_api.go,
// handlers_ws.go, handlers_health.go.
package server
