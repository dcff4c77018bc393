package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sazzad018/deshbord-sub000/internal/domain"
)

const paymentRequestColumns = `id, client_id, amount, purpose, status, note, created_at, updated_at`

// PaymentRequestRepo implements domain.PaymentRequestRepository backed by PostgreSQL.
type PaymentRequestRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRequestRepo(pool *pgxpool.Pool) *PaymentRequestRepo {
	return &PaymentRequestRepo{pool: pool}
}

func (r *PaymentRequestRepo) Create(ctx context.Context, pr *domain.PaymentRequest) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO payment_requests (id, client_id, amount, purpose, status, note)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		pr.ID, pr.ClientID, pr.Amount, pr.Purpose, pr.Status, pr.Note,
	)
	return err
}

func (r *PaymentRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentRequestColumns+` FROM payment_requests WHERE id = $1`, id)
	pr, err := scanPaymentRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *PaymentRequestRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.PaymentRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentRequestColumns+` FROM payment_requests WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPaymentRequests(rows)
}

func (r *PaymentRequestRepo) ListPending(ctx context.Context) ([]domain.PaymentRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentRequestColumns+` FROM payment_requests WHERE status = 'pending' ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPaymentRequests(rows)
}

func (r *PaymentRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentRequestStatus, note string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payment_requests SET status = $2, note = $3, updated_at = now() WHERE id = $1`,
		id, status, note,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentRequestNotFound
	}
	return nil
}

func scanPaymentRequest(row pgx.Row) (*domain.PaymentRequest, error) {
	var pr domain.PaymentRequest
	err := row.Scan(&pr.ID, &pr.ClientID, &pr.Amount, &pr.Purpose, &pr.Status, &pr.Note, &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func collectPaymentRequests(rows pgx.Rows) ([]domain.PaymentRequest, error) {
	var requests []domain.PaymentRequest
	for rows.Next() {
		pr, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *pr)
	}
	return requests, rows.Err()
}
