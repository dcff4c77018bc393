// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (client.go, project.go, invoice.go, payment_request.go,
// notification.go) hold shared types and cross-cutting interfaces. No
// implementation code - just contracts. Interfaces live here, on the consumer
// side, to prevent circular imports.
package domain
