package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PaymentRequestStatus string

const (
	PaymentPending  PaymentRequestStatus = "pending"
	PaymentApproved PaymentRequestStatus = "approved"
	PaymentRejected PaymentRequestStatus = "rejected"
)

// PaymentRequest is a client's request to draw funds from their wallet
// (e.g. to fund an ad campaign). It is submitted by the client and
// approved or rejected by an administrator.
type PaymentRequest struct {
	ID        uuid.UUID            `json:"id"`
	ClientID  uuid.UUID            `json:"clientId"`
	Amount    int64                `json:"amount"`
	Purpose   string               `json:"purpose"`
	Status    PaymentRequestStatus `json:"status"`
	Note      string               `json:"note"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type PaymentRequestRepository interface {
	Create(ctx context.Context, pr *PaymentRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*PaymentRequest, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]PaymentRequest, error)
	ListPending(ctx context.Context) ([]PaymentRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status PaymentRequestStatus, note string) error
}
