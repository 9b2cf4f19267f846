// ABOUTME: Customers page configuration.
// ABOUTME: Plain generic controller over /api/customers.

package pages

import (
	"github.com/2389/rigdesk/internal/crud"
	"github.com/2389/rigdesk/internal/store"
)

func init() {
	Define(crud.Config[store.Customer]{
		EntityKey:   "customers",
		APIEndpoint: "/api/customers",
		Columns: []crud.Column[store.Customer]{
			{Key: "name", LabelKey: "customers.fields.name", Sortable: true},
			{Key: "email", LabelKey: "customers.fields.email", Sortable: true},
			{Key: "phone", LabelKey: "customers.fields.phone"},
			{Key: "company", LabelKey: "customers.fields.company", Sortable: true},
			{Key: "status", LabelKey: "customers.fields.status", Sortable: true, ValuePrefix: "customers.status"},
			{Key: "createdAt", LabelKey: "customers.fields.createdAt", Sortable: true,
				Render: func(c store.Customer) string { return day(c.CreatedAt) }},
		},
		FormFields: []crud.FormField{
			{Key: "name", LabelKey: "customers.fields.name", Type: crud.FieldText, Required: true},
			{Key: "email", LabelKey: "customers.fields.email", Type: crud.FieldEmail, Required: true},
			{Key: "phone", LabelKey: "customers.fields.phone", Type: crud.FieldText},
			{Key: "company", LabelKey: "customers.fields.company", Type: crud.FieldText},
			{Key: "address", LabelKey: "customers.fields.address", Type: crud.FieldText},
			{Key: "status", LabelKey: "customers.fields.status", Type: crud.FieldSelect, Required: true, Default: "ACTIVE",
				Options: crud.EnumOptions("customers.status", store.CustomerStatuses)},
			{Key: "notes", LabelKey: "customers.fields.notes", Type: crud.FieldTextarea},
		},
		Filters: []crud.Filter{
			{Key: "status", LabelKey: "customers.fields.status", Type: crud.FieldSelect,
				Options: crud.EnumOptions("customers.status", store.CustomerStatuses)},
		},
		InitialSortField: "name",
	}, WithOrder(10))
}
