package notify

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sazzad018/deshbord-sub000/internal/domain"
)

// Builder turns domain events into Notification values. It performs no I/O
// and never touches the registry, so it is unit-testable in isolation; the
// injected clock makes timestamps deterministic under test.
type Builder struct {
	clock clockwork.Clock
}

func NewBuilder(clock clockwork.Clock) Builder {
	return Builder{clock: clock}
}

// PaymentRequestCreated announces a newly submitted payment request to
// administrators.
func (b Builder) PaymentRequestCreated(pr *domain.PaymentRequest, client *domain.Client) domain.Notification {
	return b.build(domain.KindPaymentRequest,
		"New payment request",
		fmt.Sprintf("%s requested %s for %q", client.Name, formatAmount(pr.Amount), pr.Purpose),
		pr, client,
	)
}

// PaymentRequestApproved informs the requesting client of the approval.
func (b Builder) PaymentRequestApproved(pr *domain.PaymentRequest, client *domain.Client) domain.Notification {
	return b.build(domain.KindPaymentApproved,
		"Payment request approved",
		fmt.Sprintf("Your payment request of %s has been approved", formatAmount(pr.Amount)),
		pr, client,
	)
}

// PaymentRequestRejected informs the requesting client of the rejection.
func (b Builder) PaymentRequestRejected(pr *domain.PaymentRequest, client *domain.Client) domain.Notification {
	return b.build(domain.KindPaymentRejected,
		"Payment request rejected",
		fmt.Sprintf("Your payment request of %s has been rejected", formatAmount(pr.Amount)),
		pr, client,
	)
}

// ConnectionEstablished is the welcome sent to a freshly registered peer to
// confirm end-to-end liveness.
func (b Builder) ConnectionEstablished() domain.Notification {
	return b.build(domain.KindConnectionEstablished,
		"Connected",
		"Realtime notifications are active",
		nil, nil,
	)
}

func (b Builder) build(kind domain.NotificationKind, title, message string, pr *domain.PaymentRequest, client *domain.Client) domain.Notification {
	switch kind {
	case domain.KindPaymentRequest, domain.KindPaymentApproved, domain.KindPaymentRejected, domain.KindConnectionEstablished:
	default:
		// An unsupported event shape is a programming error, never a
		// silently dropped notification.
		panic(fmt.Sprintf("notify: unknown notification kind %q", kind))
	}
	return domain.Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		Timestamp: b.clock.Now().UTC(),
		Data: domain.NotificationData{
			PaymentRequest: pr,
			Client:         client,
		},
	}
}

func formatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d BDT", minor/100, minor%100)
}
