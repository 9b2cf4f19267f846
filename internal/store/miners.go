// ABOUTME: Miner storage operations.
// ABOUTME: Tracks customer-owned mining rigs by serial number through the repair pipeline.

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Miner is a customer's mining rig checked in for repair
type Miner struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customerId"`
	Model        string    `json:"model"`
	Manufacturer string    `json:"manufacturer"`
	SerialNumber string    `json:"serialNumber"`
	Hashrate     float64   `json:"hashrate"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (m Miner) GetID() string { return m.ID }

var MinerStatuses = []string{"RECEIVED", "DIAGNOSING", "IN_REPAIR", "REPAIRED", "RETURNED"}

type MinerRepo struct {
	s *Store
}

func (s *Store) Miners() *MinerRepo {
	return &MinerRepo{s: s}
}

const minerColumns = `id, customer_id, model, manufacturer, serial_number, hashrate, status, notes, created_at, updated_at`

func scanMiner(sc scanner) (Miner, error) {
	var m Miner
	err := sc.Scan(&m.ID, &m.CustomerID, &m.Model, &m.Manufacturer, &m.SerialNumber, &m.Hashrate, &m.Status, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *MinerRepo) List(ctx context.Context) ([]Miner, error) {
	return queryAll(ctx, r.s, scanMiner, `SELECT `+minerColumns+` FROM miners ORDER BY created_at DESC`)
}

func (r *MinerRepo) Get(ctx context.Context, id string) (Miner, error) {
	return queryOne(ctx, r.s, scanMiner, `SELECT `+minerColumns+` FROM miners WHERE id = ?`, id)
}

func (r *MinerRepo) GetBySerial(ctx context.Context, serial string) (Miner, error) {
	return queryOne(ctx, r.s, scanMiner, `SELECT `+minerColumns+` FROM miners WHERE serial_number = ?`, serial)
}

func (r *MinerRepo) Create(ctx context.Context, m Miner) (Miner, error) {
	now := r.s.now().UTC()
	m.ID = uuid.NewString()
	m.CreatedAt, m.UpdatedAt = now, now

	_, err := r.s.exec(ctx, `
		INSERT INTO miners (`+minerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.CustomerID, m.Model, m.Manufacturer, m.SerialNumber, m.Hashrate, m.Status, m.Notes, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return Miner{}, err
	}
	return m, nil
}

func (r *MinerRepo) Update(ctx context.Context, id string, m Miner) (Miner, error) {
	res, err := r.s.exec(ctx, `
		UPDATE miners
		SET customer_id = ?, model = ?, manufacturer = ?, serial_number = ?, hashrate = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, m.CustomerID, m.Model, m.Manufacturer, m.SerialNumber, m.Hashrate, m.Status, m.Notes, r.s.now().UTC(), id)
	if err != nil {
		return Miner{}, err
	}
	if err := requireAffected(res); err != nil {
		return Miner{}, err
	}
	return r.Get(ctx, id)
}

func (r *MinerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.exec(ctx, `DELETE FROM miners WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *MinerRepo) Upsert(ctx context.Context, m Miner) (Miner, error) {
	now := r.s.now().UTC()
	_, err := r.s.exec(ctx, `
		INSERT INTO miners (`+minerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(serial_number) DO UPDATE SET
			customer_id = excluded.customer_id, model = excluded.model, manufacturer = excluded.manufacturer,
			hashrate = excluded.hashrate, status = excluded.status, notes = excluded.notes,
			updated_at = excluded.updated_at
	`, uuid.NewString(), m.CustomerID, m.Model, m.Manufacturer, m.SerialNumber, m.Hashrate, m.Status, m.Notes, now, now)
	if err != nil {
		return Miner{}, err
	}
	return r.GetBySerial(ctx, m.SerialNumber)
}
