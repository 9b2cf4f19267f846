// ABOUTME: REST routes for customers at /api/customers.
// ABOUTME: Normalizes and validates customer bodies before they reach the store.

package api

import (
	"net/http"
	"strings"

	"github.com/2389/rigdesk/internal/store"
	"github.com/2389/rigdesk/internal/validation"
)

func init() {
	Register("/api/customers", func(d Deps) (http.Handler, error) {
		return NewResource[store.Customer]("customer", d.Store.Customers(), validateCustomer).
			WithExportColumns("name", "email", "phone", "company", "address", "status", "notes", "createdAt").
			Routes(), nil
	})
}

func validateCustomer(c *store.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Status = validation.Default(c.Status, "ACTIVE")

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", c.Name)
	validation.RequireField(ve, "email", c.Email)
	validation.ValidateEmail(ve, "email", c.Email)
	validation.ValidateEnum(ve, "status", c.Status, store.CustomerStatuses)
	validation.ValidateMaxLength(ve, "notes", c.Notes, validation.MaxStringLength)
	return ve.Err()
}
