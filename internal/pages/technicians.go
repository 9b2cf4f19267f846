// ABOUTME: Technicians page configuration.
// ABOUTME: Generic controller over /api/technicians with an hourly rate column.

package pages

import (
	"github.com/2389/rigdesk/internal/crud"
	"github.com/2389/rigdesk/internal/store"
)

func init() {
	Define(crud.Config[store.Technician]{
		EntityKey:   "technicians",
		APIEndpoint: "/api/technicians",
		Columns: []crud.Column[store.Technician]{
			{Key: "name", LabelKey: "technicians.fields.name", Sortable: true},
			{Key: "email", LabelKey: "technicians.fields.email", Sortable: true},
			{Key: "specialty", LabelKey: "technicians.fields.specialty", Sortable: true},
			{Key: "status", LabelKey: "technicians.fields.status", Sortable: true, ValuePrefix: "technicians.status"},
			{Key: "hourlyRate", LabelKey: "technicians.fields.hourlyRate", Sortable: true,
				Render: func(t store.Technician) string { return money(t.HourlyRate) }},
		},
		FormFields: []crud.FormField{
			{Key: "name", LabelKey: "technicians.fields.name", Type: crud.FieldText, Required: true},
			{Key: "email", LabelKey: "technicians.fields.email", Type: crud.FieldEmail, Required: true},
			{Key: "phone", LabelKey: "technicians.fields.phone", Type: crud.FieldText},
			{Key: "specialty", LabelKey: "technicians.fields.specialty", Type: crud.FieldText, Placeholder: "Antminer hashboards"},
			{Key: "status", LabelKey: "technicians.fields.status", Type: crud.FieldSelect, Required: true, Default: "ACTIVE",
				Options: crud.EnumOptions("technicians.status", store.TechnicianStatuses)},
			{Key: "hourlyRate", LabelKey: "technicians.fields.hourlyRate", Type: crud.FieldNumber},
		},
		Filters: []crud.Filter{
			{Key: "status", LabelKey: "technicians.fields.status", Type: crud.FieldSelect,
				Options: crud.EnumOptions("technicians.status", store.TechnicianStatuses)},
		},
		InitialSortField: "name",
	}, WithOrder(20))
}
