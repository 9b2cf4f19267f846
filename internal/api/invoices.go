// ABOUTME: REST routes for invoices at /api/invoices.

package api

import (
	"net/http"

	"github.com/2389/rigdesk/internal/store"
	"github.com/2389/rigdesk/internal/validation"
)

func init() {
	Register("/api/invoices", func(d Deps) (http.Handler, error) {
		return NewResource[store.Invoice]("invoice", d.Store.Invoices(), validateInvoice).
			WithExportColumns("invoiceNumber", "customerId", "workOrderId", "amount", "tax", "total", "status", "dueDate", "createdAt").
			Routes(), nil
	})
}

func validateInvoice(i *store.Invoice) error {
	i.Status = validation.Default(i.Status, "DRAFT")

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "customerId", i.CustomerID)
	validation.ValidateEnum(ve, "status", i.Status, store.InvoiceStatuses)
	validation.ValidateNonNegativeFloat(ve, "amount", i.Amount)
	validation.ValidateNonNegativeFloat(ve, "tax", i.Tax)
	validation.ValidateDate(ve, "dueDate", i.DueDate)
	return ve.Err()
}
