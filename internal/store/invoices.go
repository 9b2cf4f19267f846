// ABOUTME: Invoice storage operations.
// ABOUTME: Bills a customer for a work order; total is always amount plus tax.

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Invoice bills a customer, optionally for a specific work order
type Invoice struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoiceNumber"`
	CustomerID    string    `json:"customerId"`
	WorkOrderID   string    `json:"workOrderId"`
	Amount        float64   `json:"amount"`
	Tax           float64   `json:"tax"`
	Total         float64   `json:"total"`
	Status        string    `json:"status"`
	DueDate       string    `json:"dueDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (i Invoice) GetID() string { return i.ID }

var InvoiceStatuses = []string{"DRAFT", "SENT", "PAID", "OVERDUE", "CANCELLED"}

type InvoiceRepo struct {
	s *Store
}

func (s *Store) Invoices() *InvoiceRepo {
	return &InvoiceRepo{s: s}
}

const invoiceSelect = `SELECT id, invoice_number, customer_id, COALESCE(work_order_id, ''),
	amount, tax, total, status, due_date, created_at, updated_at FROM invoices`

func scanInvoice(sc scanner) (Invoice, error) {
	var i Invoice
	err := sc.Scan(&i.ID, &i.InvoiceNumber, &i.CustomerID, &i.WorkOrderID,
		&i.Amount, &i.Tax, &i.Total, &i.Status, &i.DueDate, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func (r *InvoiceRepo) List(ctx context.Context) ([]Invoice, error) {
	return queryAll(ctx, r.s, scanInvoice, invoiceSelect+` ORDER BY created_at DESC`)
}

func (r *InvoiceRepo) Get(ctx context.Context, id string) (Invoice, error) {
	return queryOne(ctx, r.s, scanInvoice, invoiceSelect+` WHERE id = ?`, id)
}

func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (Invoice, error) {
	return queryOne(ctx, r.s, scanInvoice, invoiceSelect+` WHERE invoice_number = ?`, number)
}

// NextNumber returns the next INV-YYYYMMDD-NNN number for today.
func (r *InvoiceRepo) NextNumber(ctx context.Context) (string, error) {
	return r.s.nextNumber(ctx, "invoices", "invoice_number", "INV")
}

func (r *InvoiceRepo) Create(ctx context.Context, i Invoice) (Invoice, error) {
	if i.InvoiceNumber == "" {
		number, err := r.NextNumber(ctx)
		if err != nil {
			return Invoice{}, err
		}
		i.InvoiceNumber = number
	}

	now := r.s.now().UTC()
	i.ID = uuid.NewString()
	i.Total = i.Amount + i.Tax
	i.CreatedAt, i.UpdatedAt = now, now

	_, err := r.s.exec(ctx, `
		INSERT INTO invoices (id, invoice_number, customer_id, work_order_id, amount, tax, total, status, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, i.ID, i.InvoiceNumber, i.CustomerID, nullable(i.WorkOrderID), i.Amount, i.Tax, i.Total, i.Status, i.DueDate, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return Invoice{}, err
	}
	return i, nil
}

func (r *InvoiceRepo) Update(ctx context.Context, id string, i Invoice) (Invoice, error) {
	res, err := r.s.exec(ctx, `
		UPDATE invoices
		SET customer_id = ?, work_order_id = ?, amount = ?, tax = ?, total = ?, status = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`, i.CustomerID, nullable(i.WorkOrderID), i.Amount, i.Tax, i.Amount+i.Tax, i.Status, i.DueDate, r.s.now().UTC(), id)
	if err != nil {
		return Invoice{}, err
	}
	if err := requireAffected(res); err != nil {
		return Invoice{}, err
	}
	return r.Get(ctx, id)
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.exec(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *InvoiceRepo) Upsert(ctx context.Context, i Invoice) (Invoice, error) {
	now := r.s.now().UTC()
	_, err := r.s.exec(ctx, `
		INSERT INTO invoices (id, invoice_number, customer_id, work_order_id, amount, tax, total, status, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(invoice_number) DO UPDATE SET
			customer_id = excluded.customer_id, work_order_id = excluded.work_order_id, amount = excluded.amount,
			tax = excluded.tax, total = excluded.total, status = excluded.status, due_date = excluded.due_date,
			updated_at = excluded.updated_at
	`, uuid.NewString(), i.InvoiceNumber, i.CustomerID, nullable(i.WorkOrderID), i.Amount, i.Tax, i.Amount+i.Tax, i.Status, i.DueDate, now, now)
	if err != nil {
		return Invoice{}, err
	}
	return r.GetByNumber(ctx, i.InvoiceNumber)
}
