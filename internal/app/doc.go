// Package app provides the application service layer.
//
// Orchestrates use cases: client/project/invoice bookkeeping and the payment
// request workflow that triggers realtime notifications. Sits between HTTP
// handlers and domain repositories. Depends on domain interfaces, not
// concrete implementations.
package app
