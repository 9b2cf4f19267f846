// ABOUTME: Work orders page configuration.
// ABOUTME: Newest first, with related customer, miner, and technician selects.

package pages

import (
	"errors"
	"strings"
	"time"

	"github.com/2389/rigdesk/internal/crud"
	"github.com/2389/rigdesk/internal/store"
)

func init() {
	Define(crud.Config[store.WorkOrder]{
		EntityKey:   "work-orders",
		APIEndpoint: "/api/work-orders",
		I18nPrefix:  "workOrders",
		Columns: []crud.Column[store.WorkOrder]{
			{Key: "orderNumber", LabelKey: "workOrders.fields.orderNumber", Sortable: true},
			{Key: "title", LabelKey: "workOrders.fields.title", Sortable: true},
			{Key: "status", LabelKey: "workOrders.fields.status", Sortable: true, ValuePrefix: "workOrders.status"},
			{Key: "priority", LabelKey: "workOrders.fields.priority", Sortable: true, ValuePrefix: "workOrders.priority"},
			{Key: "estimatedCost", LabelKey: "workOrders.fields.estimatedCost", Sortable: true,
				Render: func(w store.WorkOrder) string { return money(w.EstimatedCost) }},
			{Key: "dueDate", LabelKey: "workOrders.fields.dueDate", Sortable: true,
				Render: func(w store.WorkOrder) string { return dateOnly(w.DueDate) }},
			{Key: "createdAt", LabelKey: "workOrders.fields.createdAt", Sortable: true,
				Render: func(w store.WorkOrder) string { return day(w.CreatedAt) }},
		},
		FormFields: []crud.FormField{
			{Key: "title", LabelKey: "workOrders.fields.title", Type: crud.FieldText, Required: true},
			{Key: "customerId", LabelKey: "workOrders.fields.customerId", Type: crud.FieldSelect, Required: true,
				OptionsEndpoint: "/api/customers", OptionLabel: "name"},
			{Key: "minerId", LabelKey: "workOrders.fields.minerId", Type: crud.FieldSelect,
				OptionsEndpoint: "/api/miners", OptionLabel: "serialNumber"},
			{Key: "technicianId", LabelKey: "workOrders.fields.technicianId", Type: crud.FieldSelect,
				OptionsEndpoint: "/api/technicians", OptionLabel: "name"},
			{Key: "description", LabelKey: "workOrders.fields.description", Type: crud.FieldTextarea},
			{Key: "status", LabelKey: "workOrders.fields.status", Type: crud.FieldSelect, Required: true, Default: "PENDING",
				Options: crud.EnumOptions("workOrders.status", store.WorkOrderStatuses)},
			{Key: "priority", LabelKey: "workOrders.fields.priority", Type: crud.FieldSelect, Required: true, Default: "MEDIUM",
				Options: crud.EnumOptions("workOrders.priority", store.WorkOrderPriorities)},
			{Key: "estimatedCost", LabelKey: "workOrders.fields.estimatedCost", Type: crud.FieldNumber, Validate: nonNegative},
			{Key: "dueDate", LabelKey: "workOrders.fields.dueDate", Type: crud.FieldDate, Validate: isoDate},
		},
		Filters: []crud.Filter{
			{Key: "status", LabelKey: "workOrders.fields.status", Type: crud.FieldSelect,
				Options: crud.EnumOptions("workOrders.status", store.WorkOrderStatuses)},
			{Key: "priority", LabelKey: "workOrders.fields.priority", Type: crud.FieldSelect,
				Options: crud.EnumOptions("workOrders.priority", store.WorkOrderPriorities)},
		},
		InitialSortField:     "createdAt",
		InitialSortDirection: crud.Desc,
		Hooks: crud.Hooks[store.WorkOrder]{
			OnBeforeUpdate: func(w store.WorkOrder, form crud.FormData) (crud.FormData, error) {
				if w.Status == "CANCELLED" && form["status"] == "COMPLETED" {
					return nil, &crud.HookError{Message: "A cancelled work order cannot be completed; reopen it first."}
				}
				return form, nil
			},
		},
	}, WithOrder(40))
}

func nonNegative(v string) error {
	if strings.HasPrefix(strings.TrimSpace(v), "-") {
		return errors.New("must not be negative")
	}
	return nil
}

func isoDate(v string) error {
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return errors.New("must be a date (YYYY-MM-DD)")
	}
	return nil
}
