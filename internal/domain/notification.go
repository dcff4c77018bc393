package domain

import "time"

// Role is the coarse audience classification of a connected peer,
// fixed at connection time.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// SubjectAnonymous is the sentinel subject for peers that did not identify
// themselves during the handshake (typically administrators).
const SubjectAnonymous = "anonymous"

type NotificationKind string

const (
	KindPaymentRequest        NotificationKind = "payment_request"
	KindPaymentApproved       NotificationKind = "payment_approved"
	KindPaymentRejected       NotificationKind = "payment_rejected"
	KindConnectionEstablished NotificationKind = "connection_established"
)

// Notification is the immutable value pushed to connected peers. The JSON
// shape is a stable contract consumed by front-end listeners; the Data bag is
// kind-specific and passed through opaquely.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Data      NotificationData `json:"data"`
}

type NotificationData struct {
	PaymentRequest *PaymentRequest `json:"paymentRequest,omitempty"`
	Client         *Client         `json:"client,omitempty"`
}

// Notifier is the producer-facing delivery API. Each call reports how many
// recipients actually received the notification; delivery is best-effort and
// at-most-once per handle per call.
type Notifier interface {
	NotifyRole(role Role, n Notification) int
	NotifySubject(subject string, n Notification) int
	Broadcast(n Notification) int
}
