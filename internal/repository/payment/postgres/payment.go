package postgres

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
	"notarycalc/internal/usecase"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

const defaultListLimit = 50

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, user_id, amount, currency, status, stripe_payment_id,
	payment_method, invoice_url, receipt_url, created_at`

func (r *PaymentRepository) SavePayment(ctx context.Context, p *entity.Payment) (*entity.Payment, error) {
	if p == nil || p.Status == "" {
		return nil, fmt.Errorf("save payment: %w", usecase.ErrInvalidPayment)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (user_id, amount, currency, status, stripe_payment_id,
			payment_method, invoice_url, receipt_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+paymentColumns,
		p.UserID.String(), int64(p.Amount), p.Currency, string(p.Status), p.StripePaymentID,
		p.PaymentMethod, p.InvoiceURL, p.ReceiptURL,
	)
	out, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}
	return out, nil
}

func (r *PaymentRepository) ListPayments(ctx context.Context, userID strfmt.UUID, limit, offset int) ([]*entity.Payment, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, userID.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("list payments: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var (
		p          entity.Payment
		id, userID string
		amount     int64
		status     string
	)
	err := row.Scan(&id, &userID, &amount, &p.Currency, &status, &p.StripePaymentID,
		&p.PaymentMethod, &p.InvoiceURL, &p.ReceiptURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.ID = strfmt.UUID(id)
	p.UserID = strfmt.UUID(userID)
	p.Amount = fees.Money(amount)
	p.Status = entity.PaymentStatus(status)
	return &p, nil
}
