package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
)

type Invoice struct {
	ID        uuid.UUID     `json:"id"`
	ClientID  uuid.UUID     `json:"clientId"`
	ProjectID uuid.UUID     `json:"projectId"`
	Amount    int64         `json:"amount"`
	Status    InvoiceStatus `json:"status"`
	DueDate   time.Time     `json:"dueDate"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status InvoiceStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}
