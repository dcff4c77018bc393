package domain

import (
	"context"

	"github.com/google/uuid"
)

// AppService is the application-layer contract consumed by the HTTP handlers.
type AppService interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, id uuid.UUID) error

	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, clientID *uuid.UUID) ([]Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, clientID *uuid.UUID) ([]Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status InvoiceStatus) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error

	CreatePaymentRequest(ctx context.Context, clientID uuid.UUID, amount int64, purpose string) (*PaymentRequest, error)
	ApprovePaymentRequest(ctx context.Context, id uuid.UUID, note string) (*PaymentRequest, error)
	RejectPaymentRequest(ctx context.Context, id uuid.UUID, note string) (*PaymentRequest, error)
	GetPaymentRequest(ctx context.Context, id uuid.UUID) (*PaymentRequest, error)
	ListPaymentRequests(ctx context.Context, clientID *uuid.UUID) ([]PaymentRequest, error)
}
