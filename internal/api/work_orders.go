// ABOUTME: REST routes for repair work orders at /api/work-orders.
// ABOUTME: Order numbers are assigned by the store when a body omits them.

package api

import (
	"net/http"
	"strings"

	"github.com/2389/rigdesk/internal/store"
	"github.com/2389/rigdesk/internal/validation"
)

func init() {
	Register("/api/work-orders", func(d Deps) (http.Handler, error) {
		return NewResource[store.WorkOrder]("work order", d.Store.WorkOrders(), validateWorkOrder).
			WithExportColumns("orderNumber", "title", "status", "priority", "estimatedCost", "dueDate",
				"customerId", "minerId", "technicianId", "createdAt").
			Routes(), nil
	})
}

func validateWorkOrder(w *store.WorkOrder) error {
	w.Title = strings.TrimSpace(w.Title)
	w.Status = validation.Default(w.Status, "PENDING")
	w.Priority = validation.Default(w.Priority, "MEDIUM")

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "customerId", w.CustomerID)
	validation.RequireField(ve, "title", w.Title)
	validation.ValidateEnum(ve, "status", w.Status, store.WorkOrderStatuses)
	validation.ValidateEnum(ve, "priority", w.Priority, store.WorkOrderPriorities)
	validation.ValidateNonNegativeFloat(ve, "estimatedCost", w.EstimatedCost)
	validation.ValidateDate(ve, "dueDate", w.DueDate)
	validation.ValidateMaxLength(ve, "description", w.Description, validation.MaxStringLength)
	return ve.Err()
}
