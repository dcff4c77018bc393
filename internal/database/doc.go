// Package database provides PostgreSQL connectivity and repositories.
//
// Uses pgx for connection pooling. Repositories implement the domain
// interfaces (ClientRepository, ProjectRepository, InvoiceRepository,
// PaymentRequestRepository) and map pgx.ErrNoRows to domain sentinel errors.
package database
