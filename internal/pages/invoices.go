// ABOUTME: Invoices page configuration.
// ABOUTME: Newest first with currency columns; the server computes the total.

package pages

import (
	"github.com/2389/rigdesk/internal/crud"
	"github.com/2389/rigdesk/internal/store"
)

func init() {
	Define(crud.Config[store.Invoice]{
		EntityKey:   "invoices",
		APIEndpoint: "/api/invoices",
		Columns: []crud.Column[store.Invoice]{
			{Key: "invoiceNumber", LabelKey: "invoices.fields.invoiceNumber", Sortable: true},
			{Key: "amount", LabelKey: "invoices.fields.amount", Sortable: true,
				Render: func(i store.Invoice) string { return money(i.Amount) }},
			{Key: "tax", LabelKey: "invoices.fields.tax",
				Render: func(i store.Invoice) string { return money(i.Tax) }},
			{Key: "total", LabelKey: "invoices.fields.total", Sortable: true,
				Render: func(i store.Invoice) string { return money(i.Total) }},
			{Key: "status", LabelKey: "invoices.fields.status", Sortable: true, ValuePrefix: "invoices.status"},
			{Key: "dueDate", LabelKey: "invoices.fields.dueDate", Sortable: true,
				Render: func(i store.Invoice) string { return dateOnly(i.DueDate) }},
			{Key: "createdAt", LabelKey: "invoices.fields.createdAt", Sortable: true,
				Render: func(i store.Invoice) string { return day(i.CreatedAt) }},
		},
		FormFields: []crud.FormField{
			{Key: "customerId", LabelKey: "invoices.fields.customerId", Type: crud.FieldSelect, Required: true,
				OptionsEndpoint: "/api/customers", OptionLabel: "name"},
			{Key: "workOrderId", LabelKey: "invoices.fields.workOrderId", Type: crud.FieldSelect,
				OptionsEndpoint: "/api/work-orders", OptionLabel: "orderNumber"},
			{Key: "amount", LabelKey: "invoices.fields.amount", Type: crud.FieldNumber, Required: true, Validate: nonNegative},
			{Key: "tax", LabelKey: "invoices.fields.tax", Type: crud.FieldNumber, Validate: nonNegative},
			{Key: "status", LabelKey: "invoices.fields.status", Type: crud.FieldSelect, Required: true, Default: "DRAFT",
				Options: crud.EnumOptions("invoices.status", store.InvoiceStatuses)},
			{Key: "dueDate", LabelKey: "invoices.fields.dueDate", Type: crud.FieldDate, Validate: isoDate},
		},
		Filters: []crud.Filter{
			{Key: "status", LabelKey: "invoices.fields.status", Type: crud.FieldSelect,
				Options: crud.EnumOptions("invoices.status", store.InvoiceStatuses)},
		},
		InitialSortField:     "createdAt",
		InitialSortDirection: crud.Desc,
	}, WithOrder(50))
}
