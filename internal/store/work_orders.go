// ABOUTME: Work order storage operations.
// ABOUTME: Repair jobs linking a customer, an optional miner, and an optional technician.

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WorkOrder is a repair job opened for a customer
type WorkOrder struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"orderNumber"`
	CustomerID    string    `json:"customerId"`
	MinerID       string    `json:"minerId"`
	TechnicianID  string    `json:"technicianId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	EstimatedCost float64   `json:"estimatedCost"`
	DueDate       string    `json:"dueDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (w WorkOrder) GetID() string { return w.ID }

var (
	WorkOrderStatuses   = []string{"PENDING", "IN_PROGRESS", "COMPLETED", "CANCELLED"}
	WorkOrderPriorities = []string{"LOW", "MEDIUM", "HIGH", "URGENT"}
)

type WorkOrderRepo struct {
	s *Store
}

func (s *Store) WorkOrders() *WorkOrderRepo {
	return &WorkOrderRepo{s: s}
}

const workOrderSelect = `SELECT id, order_number, customer_id, COALESCE(miner_id, ''), COALESCE(technician_id, ''),
	title, description, status, priority, estimated_cost, due_date, created_at, updated_at FROM work_orders`

func scanWorkOrder(sc scanner) (WorkOrder, error) {
	var w WorkOrder
	err := sc.Scan(&w.ID, &w.OrderNumber, &w.CustomerID, &w.MinerID, &w.TechnicianID,
		&w.Title, &w.Description, &w.Status, &w.Priority, &w.EstimatedCost, &w.DueDate, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *WorkOrderRepo) List(ctx context.Context) ([]WorkOrder, error) {
	return queryAll(ctx, r.s, scanWorkOrder, workOrderSelect+` ORDER BY created_at DESC`)
}

func (r *WorkOrderRepo) Get(ctx context.Context, id string) (WorkOrder, error) {
	return queryOne(ctx, r.s, scanWorkOrder, workOrderSelect+` WHERE id = ?`, id)
}

func (r *WorkOrderRepo) GetByNumber(ctx context.Context, number string) (WorkOrder, error) {
	return queryOne(ctx, r.s, scanWorkOrder, workOrderSelect+` WHERE order_number = ?`, number)
}

// NextNumber returns the next WO-YYYYMMDD-NNN number for today.
func (r *WorkOrderRepo) NextNumber(ctx context.Context) (string, error) {
	return r.s.nextNumber(ctx, "work_orders", "order_number", "WO")
}

// Create inserts a work order, assigning an order number when none is given.
func (r *WorkOrderRepo) Create(ctx context.Context, w WorkOrder) (WorkOrder, error) {
	if w.OrderNumber == "" {
		number, err := r.NextNumber(ctx)
		if err != nil {
			return WorkOrder{}, err
		}
		w.OrderNumber = number
	}

	now := r.s.now().UTC()
	w.ID = uuid.NewString()
	w.CreatedAt, w.UpdatedAt = now, now

	_, err := r.s.exec(ctx, `
		INSERT INTO work_orders (id, order_number, customer_id, miner_id, technician_id, title, description,
			status, priority, estimated_cost, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.OrderNumber, w.CustomerID, nullable(w.MinerID), nullable(w.TechnicianID), w.Title, w.Description,
		w.Status, w.Priority, w.EstimatedCost, w.DueDate, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return WorkOrder{}, err
	}
	return w, nil
}

// Update rewrites the editable fields; the order number is kept.
func (r *WorkOrderRepo) Update(ctx context.Context, id string, w WorkOrder) (WorkOrder, error) {
	res, err := r.s.exec(ctx, `
		UPDATE work_orders
		SET customer_id = ?, miner_id = ?, technician_id = ?, title = ?, description = ?,
			status = ?, priority = ?, estimated_cost = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`, w.CustomerID, nullable(w.MinerID), nullable(w.TechnicianID), w.Title, w.Description,
		w.Status, w.Priority, w.EstimatedCost, w.DueDate, r.s.now().UTC(), id)
	if err != nil {
		return WorkOrder{}, err
	}
	if err := requireAffected(res); err != nil {
		return WorkOrder{}, err
	}
	return r.Get(ctx, id)
}

func (r *WorkOrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.exec(ctx, `DELETE FROM work_orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *WorkOrderRepo) Upsert(ctx context.Context, w WorkOrder) (WorkOrder, error) {
	now := r.s.now().UTC()
	_, err := r.s.exec(ctx, `
		INSERT INTO work_orders (id, order_number, customer_id, miner_id, technician_id, title, description,
			status, priority, estimated_cost, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(order_number) DO UPDATE SET
			customer_id = excluded.customer_id, miner_id = excluded.miner_id, technician_id = excluded.technician_id,
			title = excluded.title, description = excluded.description, status = excluded.status,
			priority = excluded.priority, estimated_cost = excluded.estimated_cost, due_date = excluded.due_date,
			updated_at = excluded.updated_at
	`, uuid.NewString(), w.OrderNumber, w.CustomerID, nullable(w.MinerID), nullable(w.TechnicianID), w.Title, w.Description,
		w.Status, w.Priority, w.EstimatedCost, w.DueDate, now, now)
	if err != nil {
		return WorkOrder{}, err
	}
	return r.GetByNumber(ctx, w.OrderNumber)
}
