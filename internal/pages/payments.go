// ABOUTME: Payments page configuration.
// ABOUTME: Newest first; each payment is recorded against an invoice.

package pages

import (
	"github.com/2389/rigdesk/internal/crud"
	"github.com/2389/rigdesk/internal/store"
)

func init() {
	Define(crud.Config[store.Payment]{
		EntityKey:   "payments",
		APIEndpoint: "/api/payments",
		Columns: []crud.Column[store.Payment]{
			{Key: "reference", LabelKey: "payments.fields.reference", Sortable: true},
			{Key: "amount", LabelKey: "payments.fields.amount", Sortable: true,
				Render: func(p store.Payment) string { return money(p.Amount) }},
			{Key: "method", LabelKey: "payments.fields.method", Sortable: true, ValuePrefix: "payments.method"},
			{Key: "status", LabelKey: "payments.fields.status", Sortable: true, ValuePrefix: "payments.status"},
			{Key: "paidAt", LabelKey: "payments.fields.paidAt", Sortable: true,
				Render: func(p store.Payment) string { return dateOnly(p.PaidAt) }},
			{Key: "createdAt", LabelKey: "payments.fields.createdAt", Sortable: true,
				Render: func(p store.Payment) string { return day(p.CreatedAt) }},
		},
		FormFields: []crud.FormField{
			{Key: "invoiceId", LabelKey: "payments.fields.invoiceId", Type: crud.FieldSelect, Required: true,
				OptionsEndpoint: "/api/invoices", OptionLabel: "invoiceNumber"},
			{Key: "amount", LabelKey: "payments.fields.amount", Type: crud.FieldNumber, Required: true, Validate: nonNegative},
			{Key: "method", LabelKey: "payments.fields.method", Type: crud.FieldSelect, Required: true, Default: "BANK_TRANSFER",
				Options: crud.EnumOptions("payments.method", store.PaymentMethods)},
			{Key: "status", LabelKey: "payments.fields.status", Type: crud.FieldSelect, Required: true, Default: "PENDING",
				Options: crud.EnumOptions("payments.status", store.PaymentStatuses)},
			{Key: "reference", LabelKey: "payments.fields.reference", Type: crud.FieldText},
			{Key: "paidAt", LabelKey: "payments.fields.paidAt", Type: crud.FieldDate, Validate: isoDate},
		},
		Filters: []crud.Filter{
			{Key: "method", LabelKey: "payments.fields.method", Type: crud.FieldSelect,
				Options: crud.EnumOptions("payments.method", store.PaymentMethods)},
			{Key: "status", LabelKey: "payments.fields.status", Type: crud.FieldSelect,
				Options: crud.EnumOptions("payments.status", store.PaymentStatuses)},
		},
		InitialSortField:     "createdAt",
		InitialSortDirection: crud.Desc,
	}, WithOrder(60))
}
