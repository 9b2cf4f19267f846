// ABOUTME: REST routes for technicians at /api/technicians.

package api

import (
	"net/http"
	"strings"

	"github.com/2389/rigdesk/internal/store"
	"github.com/2389/rigdesk/internal/validation"
)

func init() {
	Register("/api/technicians", func(d Deps) (http.Handler, error) {
		return NewResource[store.Technician]("technician", d.Store.Technicians(), validateTechnician).
			WithExportColumns("name", "email", "phone", "specialty", "status", "hourlyRate", "createdAt").
			Routes(), nil
	})
}

func validateTechnician(t *store.Technician) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.ToLower(strings.TrimSpace(t.Email))
	t.Status = validation.Default(t.Status, "ACTIVE")

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", t.Name)
	validation.RequireField(ve, "email", t.Email)
	validation.ValidateEmail(ve, "email", t.Email)
	validation.ValidateEnum(ve, "status", t.Status, store.TechnicianStatuses)
	validation.ValidateNonNegativeFloat(ve, "hourlyRate", t.HourlyRate)
	return ve.Err()
}
