// ABOUTME: REST routes for payments at /api/payments.

package api

import (
	"net/http"

	"github.com/2389/rigdesk/internal/store"
	"github.com/2389/rigdesk/internal/validation"
)

func init() {
	Register("/api/payments", func(d Deps) (http.Handler, error) {
		return NewResource[store.Payment]("payment", d.Store.Payments(), validatePayment).
			WithExportColumns("reference", "invoiceId", "amount", "method", "status", "paidAt", "createdAt").
			Routes(), nil
	})
}

func validatePayment(p *store.Payment) error {
	p.Method = validation.Default(p.Method, "CASH")
	p.Status = validation.Default(p.Status, "PENDING")

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "invoiceId", p.InvoiceID)
	validation.ValidateEnum(ve, "method", p.Method, store.PaymentMethods)
	validation.ValidateEnum(ve, "status", p.Status, store.PaymentStatuses)
	validation.ValidateNonNegativeFloat(ve, "amount", p.Amount)
	validation.ValidateDate(ve, "paidAt", p.PaidAt)
	return ve.Err()
}
