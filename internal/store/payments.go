// ABOUTME: Payment storage operations.
// ABOUTME: Records money received against an invoice, keyed by a unique reference.

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Payment is money received against an invoice
type Payment struct {
	ID        string    `json:"id"`
	InvoiceID string    `json:"invoiceId"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	Reference string    `json:"reference"`
	PaidAt    string    `json:"paidAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Payment) GetID() string { return p.ID }

var (
	PaymentMethods  = []string{"CASH", "CARD", "BANK_TRANSFER", "CRYPTO"}
	PaymentStatuses = []string{"PENDING", "COMPLETED", "FAILED", "REFUNDED"}
)

type PaymentRepo struct {
	s *Store
}

func (s *Store) Payments() *PaymentRepo {
	return &PaymentRepo{s: s}
}

const paymentColumns = `id, invoice_id, amount, method, status, reference, paid_at, created_at, updated_at`

func scanPayment(sc scanner) (Payment, error) {
	var p Payment
	err := sc.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Status, &p.Reference, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PaymentRepo) List(ctx context.Context) ([]Payment, error) {
	return queryAll(ctx, r.s, scanPayment, `SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC`)
}

func (r *PaymentRepo) Get(ctx context.Context, id string) (Payment, error) {
	return queryOne(ctx, r.s, scanPayment, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)
}

func (r *PaymentRepo) GetByReference(ctx context.Context, ref string) (Payment, error) {
	return queryOne(ctx, r.s, scanPayment, `SELECT `+paymentColumns+` FROM payments WHERE reference = ?`, ref)
}

// Create inserts a payment, generating a reference when none is given.
func (r *PaymentRepo) Create(ctx context.Context, p Payment) (Payment, error) {
	now := r.s.now().UTC()
	p.ID = uuid.NewString()
	if p.Reference == "" {
		p.Reference = "PAY-" + p.ID[:8]
	}
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := r.s.exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.InvoiceID, p.Amount, p.Method, p.Status, p.Reference, p.PaidAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (r *PaymentRepo) Update(ctx context.Context, id string, p Payment) (Payment, error) {
	res, err := r.s.exec(ctx, `
		UPDATE payments
		SET invoice_id = ?, amount = ?, method = ?, status = ?, paid_at = ?, updated_at = ?
		WHERE id = ?
	`, p.InvoiceID, p.Amount, p.Method, p.Status, p.PaidAt, r.s.now().UTC(), id)
	if err != nil {
		return Payment{}, err
	}
	if err := requireAffected(res); err != nil {
		return Payment{}, err
	}
	return r.Get(ctx, id)
}

func (r *PaymentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.exec(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PaymentRepo) Upsert(ctx context.Context, p Payment) (Payment, error) {
	now := r.s.now().UTC()
	_, err := r.s.exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(reference) DO UPDATE SET
			invoice_id = excluded.invoice_id, amount = excluded.amount, method = excluded.method,
			status = excluded.status, paid_at = excluded.paid_at, updated_at = excluded.updated_at
	`, uuid.NewString(), p.InvoiceID, p.Amount, p.Method, p.Status, p.Reference, p.PaidAt, now, now)
	if err != nil {
		return Payment{}, err
	}
	return r.GetByReference(ctx, p.Reference)
}
