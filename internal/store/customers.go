// ABOUTME: Customer storage operations.
// ABOUTME: CRUD plus upsert-by-email for the seed job.

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Customer is a shop customer who brings in miners for repair
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Customer) GetID() string { return c.ID }

// CustomerStatuses lists the accepted customer status values
var CustomerStatuses = []string{"ACTIVE", "INACTIVE"}

type CustomerRepo struct {
	s *Store
}

func (s *Store) Customers() *CustomerRepo {
	return &CustomerRepo{s: s}
}

const customerColumns = `id, name, email, phone, company, address, status, notes, created_at, updated_at`

func scanCustomer(sc scanner) (Customer, error) {
	var c Customer
	err := sc.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CustomerRepo) List(ctx context.Context) ([]Customer, error) {
	return queryAll(ctx, r.s, scanCustomer, `SELECT `+customerColumns+` FROM customers ORDER BY name`)
}

func (r *CustomerRepo) Get(ctx context.Context, id string) (Customer, error) {
	return queryOne(ctx, r.s, scanCustomer, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (Customer, error) {
	return queryOne(ctx, r.s, scanCustomer, `SELECT `+customerColumns+` FROM customers WHERE email = ?`, email)
}

func (r *CustomerRepo) Create(ctx context.Context, c Customer) (Customer, error) {
	now := r.s.now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err := r.s.exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Email, c.Phone, c.Company, c.Address, c.Status, c.Notes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, id string, c Customer) (Customer, error) {
	res, err := r.s.exec(ctx, `
		UPDATE customers
		SET name = ?, email = ?, phone = ?, company = ?, address = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Email, c.Phone, c.Company, c.Address, c.Status, c.Notes, r.s.now().UTC(), id)
	if err != nil {
		return Customer{}, err
	}
	if err := requireAffected(res); err != nil {
		return Customer{}, err
	}
	return r.Get(ctx, id)
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.exec(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Upsert inserts the customer or refreshes the row sharing its email.
func (r *CustomerRepo) Upsert(ctx context.Context, c Customer) (Customer, error) {
	now := r.s.now().UTC()
	_, err := r.s.exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name, phone = excluded.phone, company = excluded.company,
			address = excluded.address, status = excluded.status, notes = excluded.notes,
			updated_at = excluded.updated_at
	`, uuid.NewString(), c.Name, c.Email, c.Phone, c.Company, c.Address, c.Status, c.Notes, now, now)
	if err != nil {
		return Customer{}, err
	}
	return r.GetByEmail(ctx, c.Email)
}
