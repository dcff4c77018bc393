package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sazzad018/deshbord-sub000/internal/domain"
	"github.com/sazzad018/deshbord-sub000/internal/notify"
)

// Service is the application layer — the only component that references
// multiple domain components. It orchestrates all use cases.
type Service struct {
	clients  domain.ClientRepository
	projects domain.ProjectRepository
	invoices domain.InvoiceRepository
	payments domain.PaymentRequestRepository
	notifier domain.Notifier
	builder  notify.Builder
	clock    clockwork.Clock
}

// NewService creates the application layer service. The notifier is the
// single process-wide hub instance, injected rather than reached for as a
// package global.
func NewService(
	clients domain.ClientRepository,
	projects domain.ProjectRepository,
	invoices domain.InvoiceRepository,
	payments domain.PaymentRequestRepository,
	notifier domain.Notifier,
	builder notify.Builder,
	clock clockwork.Clock,
) *Service {
	return &Service{
		clients:  clients,
		projects: projects,
		invoices: invoices,
		payments: payments,
		notifier: notifier,
		builder:  builder,
		clock:    clock,
	}
}

// --- Clients ---

func (s *Service) CreateClient(ctx context.Context, c *domain.Client) error {
	c.ID = uuid.New()
	return s.clients.Create(ctx, c)
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clients.List(ctx)
}

func (s *Service) UpdateClient(ctx context.Context, c *domain.Client) error {
	return s.clients.Update(ctx, c)
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return s.clients.Delete(ctx, id)
}

// --- Projects ---

func (s *Service) CreateProject(ctx context.Context, p *domain.Project) error {
	if _, err := s.clients.GetByID(ctx, p.ClientID); err != nil {
		return err
	}
	p.ID = uuid.New()
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	return s.projects.Create(ctx, p)
}

func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *Service) ListProjects(ctx context.Context, clientID *uuid.UUID) ([]domain.Project, error) {
	if clientID != nil {
		return s.projects.ListByClient(ctx, *clientID)
	}
	return s.projects.List(ctx)
}

func (s *Service) UpdateProject(ctx context.Context, p *domain.Project) error {
	return s.projects.Update(ctx, p)
}

func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.projects.Delete(ctx, id)
}

// --- Invoices ---

func (s *Service) CreateInvoice(ctx context.Context, inv *domain.Invoice) error {
	if _, err := s.clients.GetByID(ctx, inv.ClientID); err != nil {
		return err
	}
	inv.ID = uuid.New()
	if inv.Status == "" {
		inv.Status = domain.InvoiceDraft
	}
	if inv.DueDate.IsZero() {
		inv.DueDate = s.clock.Now().AddDate(0, 0, 30)
	}
	return s.invoices.Create(ctx, inv)
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) ListInvoices(ctx context.Context, clientID *uuid.UUID) ([]domain.Invoice, error) {
	if clientID != nil {
		return s.invoices.ListByClient(ctx, *clientID)
	}
	return s.invoices.List(ctx)
}

func (s *Service) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus) error {
	switch status {
	case domain.InvoiceDraft, domain.InvoiceSent, domain.InvoicePaid:
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	return s.invoices.UpdateStatus(ctx, id, status)
}

func (s *Service) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.invoices.Delete(ctx, id)
}

// --- Payment requests ---

// CreatePaymentRequest records a client's request to draw funds and pushes a
// realtime notification to every connected administrator. Delivery is
// best-effort; a failed push is harmless because the dashboard re-fetches
// pending requests over REST.
func (s *Service) CreatePaymentRequest(ctx context.Context, clientID uuid.UUID, amount int64, purpose string) (*domain.PaymentRequest, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amount)
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	pr := &domain.PaymentRequest{
		ID:        uuid.New(),
		ClientID:  clientID,
		Amount:    amount,
		Purpose:   purpose,
		Status:    domain.PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.payments.Create(ctx, pr); err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}

	delivered := s.notifier.NotifyRole(domain.RoleAdmin, s.builder.PaymentRequestCreated(pr, client))
	slog.Debug("Payment request notification dispatched",
		"payment_request_id", pr.ID.String(),
		"delivered", delivered,
	)

	return pr, nil
}

// ApprovePaymentRequest moves a pending request to approved, deducts the
// amount from the client's wallet, and notifies the requesting client.
func (s *Service) ApprovePaymentRequest(ctx context.Context, id uuid.UUID, note string) (*domain.PaymentRequest, error) {
	return s.resolvePaymentRequest(ctx, id, domain.PaymentApproved, note)
}

// RejectPaymentRequest moves a pending request to rejected and notifies the
// requesting client.
func (s *Service) RejectPaymentRequest(ctx context.Context, id uuid.UUID, note string) (*domain.PaymentRequest, error) {
	return s.resolvePaymentRequest(ctx, id, domain.PaymentRejected, note)
}

func (s *Service) resolvePaymentRequest(ctx context.Context, id uuid.UUID, status domain.PaymentRequestStatus, note string) (*domain.PaymentRequest, error) {
	pr, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pr.Status != domain.PaymentPending {
		return nil, fmt.Errorf("%w: payment request is already %s", domain.ErrInvalidStatus, pr.Status)
	}

	client, err := s.clients.GetByID(ctx, pr.ClientID)
	if err != nil {
		return nil, err
	}

	if err := s.payments.UpdateStatus(ctx, id, status, note); err != nil {
		return nil, err
	}
	pr.Status = status
	pr.Note = note
	pr.UpdatedAt = s.clock.Now()

	if status == domain.PaymentApproved {
		client.WalletBalance -= pr.Amount
		if err := s.clients.Update(ctx, client); err != nil {
			slog.Error("Failed to deduct wallet balance",
				"client_id", client.ID.String(),
				"payment_request_id", pr.ID.String(),
				"error", err,
			)
		}
	}

	var n domain.Notification
	if status == domain.PaymentApproved {
		n = s.builder.PaymentRequestApproved(pr, client)
	} else {
		n = s.builder.PaymentRequestRejected(pr, client)
	}

	// Targeted delivery: the subject is the client's id, so every open tab or
	// device of that client receives the update, regardless of count.
	delivered := s.notifier.NotifySubject(client.ID.String(), n)
	slog.Debug("Payment resolution notification dispatched",
		"payment_request_id", pr.ID.String(),
		"status", string(status),
		"delivered", delivered,
	)

	return pr, nil
}

func (s *Service) GetPaymentRequest(ctx context.Context, id uuid.UUID) (*domain.PaymentRequest, error) {
	return s.payments.GetByID(ctx, id)
}

func (s *Service) ListPaymentRequests(ctx context.Context, clientID *uuid.UUID) ([]domain.PaymentRequest, error) {
	if clientID != nil {
		return s.payments.ListByClient(ctx, *clientID)
	}
	return s.payments.ListPending(ctx)
}
