// ABOUTME: Miners page configuration.
// ABOUTME: Generic controller over /api/miners; the owner is picked from the customer list.

package pages

import (
	"fmt"

	"github.com/2389/rigdesk/internal/crud"
	"github.com/2389/rigdesk/internal/store"
)

func init() {
	Define(crud.Config[store.Miner]{
		EntityKey:   "miners",
		APIEndpoint: "/api/miners",
		Columns: []crud.Column[store.Miner]{
			{Key: "serialNumber", LabelKey: "miners.fields.serialNumber", Sortable: true},
			{Key: "manufacturer", LabelKey: "miners.fields.manufacturer", Sortable: true},
			{Key: "model", LabelKey: "miners.fields.model", Sortable: true},
			{Key: "hashrate", LabelKey: "miners.fields.hashrate", Sortable: true,
				Render: func(m store.Miner) string { return fmt.Sprintf("%.1f", m.Hashrate) }},
			{Key: "status", LabelKey: "miners.fields.status", Sortable: true, ValuePrefix: "miners.status"},
			{Key: "createdAt", LabelKey: "miners.fields.createdAt", Sortable: true,
				Render: func(m store.Miner) string { return day(m.CreatedAt) }},
		},
		FormFields: []crud.FormField{
			{Key: "customerId", LabelKey: "miners.fields.customerId", Type: crud.FieldSelect, Required: true,
				OptionsEndpoint: "/api/customers", OptionLabel: "name"},
			{Key: "serialNumber", LabelKey: "miners.fields.serialNumber", Type: crud.FieldText, Required: true},
			{Key: "manufacturer", LabelKey: "miners.fields.manufacturer", Type: crud.FieldText, Placeholder: "Bitmain"},
			{Key: "model", LabelKey: "miners.fields.model", Type: crud.FieldText, Required: true, Placeholder: "Antminer S19"},
			{Key: "hashrate", LabelKey: "miners.fields.hashrate", Type: crud.FieldNumber},
			{Key: "status", LabelKey: "miners.fields.status", Type: crud.FieldSelect, Required: true, Default: "RECEIVED",
				Options: crud.EnumOptions("miners.status", store.MinerStatuses)},
			{Key: "notes", LabelKey: "miners.fields.notes", Type: crud.FieldTextarea},
		},
		Filters: []crud.Filter{
			{Key: "status", LabelKey: "miners.fields.status", Type: crud.FieldSelect,
				Options: crud.EnumOptions("miners.status", store.MinerStatuses)},
		},
		InitialSortField: "serialNumber",
	}, WithOrder(30))
}
