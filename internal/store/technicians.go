// ABOUTME: Technician storage operations.
// ABOUTME: CRUD plus upsert-by-email for the seed job.

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Technician is a member of the repair bench
type Technician struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Specialty  string    `json:"specialty"`
	Status     string    `json:"status"`
	HourlyRate float64   `json:"hourlyRate"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (t Technician) GetID() string { return t.ID }

var TechnicianStatuses = []string{"ACTIVE", "INACTIVE", "ON_LEAVE"}

type TechnicianRepo struct {
	s *Store
}

func (s *Store) Technicians() *TechnicianRepo {
	return &TechnicianRepo{s: s}
}

const technicianColumns = `id, name, email, phone, specialty, status, hourly_rate, created_at, updated_at`

func scanTechnician(sc scanner) (Technician, error) {
	var t Technician
	err := sc.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.Specialty, &t.Status, &t.HourlyRate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *TechnicianRepo) List(ctx context.Context) ([]Technician, error) {
	return queryAll(ctx, r.s, scanTechnician, `SELECT `+technicianColumns+` FROM technicians ORDER BY name`)
}

func (r *TechnicianRepo) Get(ctx context.Context, id string) (Technician, error) {
	return queryOne(ctx, r.s, scanTechnician, `SELECT `+technicianColumns+` FROM technicians WHERE id = ?`, id)
}

func (r *TechnicianRepo) GetByEmail(ctx context.Context, email string) (Technician, error) {
	return queryOne(ctx, r.s, scanTechnician, `SELECT `+technicianColumns+` FROM technicians WHERE email = ?`, email)
}

func (r *TechnicianRepo) Create(ctx context.Context, t Technician) (Technician, error) {
	now := r.s.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := r.s.exec(ctx, `
		INSERT INTO technicians (`+technicianColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Email, t.Phone, t.Specialty, t.Status, t.HourlyRate, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return Technician{}, err
	}
	return t, nil
}

func (r *TechnicianRepo) Update(ctx context.Context, id string, t Technician) (Technician, error) {
	res, err := r.s.exec(ctx, `
		UPDATE technicians
		SET name = ?, email = ?, phone = ?, specialty = ?, status = ?, hourly_rate = ?, updated_at = ?
		WHERE id = ?
	`, t.Name, t.Email, t.Phone, t.Specialty, t.Status, t.HourlyRate, r.s.now().UTC(), id)
	if err != nil {
		return Technician{}, err
	}
	if err := requireAffected(res); err != nil {
		return Technician{}, err
	}
	return r.Get(ctx, id)
}

func (r *TechnicianRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.exec(ctx, `DELETE FROM technicians WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *TechnicianRepo) Upsert(ctx context.Context, t Technician) (Technician, error) {
	now := r.s.now().UTC()
	_, err := r.s.exec(ctx, `
		INSERT INTO technicians (`+technicianColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name, phone = excluded.phone, specialty = excluded.specialty,
			status = excluded.status, hourly_rate = excluded.hourly_rate, updated_at = excluded.updated_at
	`, uuid.NewString(), t.Name, t.Email, t.Phone, t.Specialty, t.Status, t.HourlyRate, now, now)
	if err != nil {
		return Technician{}, err
	}
	return r.GetByEmail(ctx, t.Email)
}
