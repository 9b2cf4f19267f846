// ABOUTME: REST routes for miners at /api/miners.

package api

import (
	"net/http"
	"strings"

	"github.com/2389/rigdesk/internal/store"
	"github.com/2389/rigdesk/internal/validation"
)

func init() {
	Register("/api/miners", func(d Deps) (http.Handler, error) {
		return NewResource[store.Miner]("miner", d.Store.Miners(), validateMiner).
			WithExportColumns("serialNumber", "model", "manufacturer", "hashrate", "status", "customerId", "notes", "createdAt").
			Routes(), nil
	})
}

func validateMiner(m *store.Miner) error {
	m.Model = strings.TrimSpace(m.Model)
	m.SerialNumber = strings.ToUpper(strings.TrimSpace(m.SerialNumber))
	m.Status = validation.Default(m.Status, "RECEIVED")

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "customerId", m.CustomerID)
	validation.RequireField(ve, "model", m.Model)
	validation.RequireField(ve, "serialNumber", m.SerialNumber)
	validation.ValidateEnum(ve, "status", m.Status, store.MinerStatuses)
	validation.ValidateNonNegativeFloat(ve, "hashrate", m.Hashrate)
	validation.ValidateMaxLength(ve, "notes", m.Notes, validation.MaxStringLength)
	return ve.Err()
}
