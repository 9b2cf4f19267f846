// ABOUTME: Shared validation for generic named-record resources created by create-page.

package api

import (
	"strings"

	"github.com/2389/rigdesk/internal/store"
	"github.com/2389/rigdesk/internal/validation"
)

// ValidateRecord requires a non-empty name.
func ValidateRecord(r *store.Record) error {
	r.Name = strings.TrimSpace(r.Name)

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", r.Name)
	validation.ValidateMaxLength(ve, "name", r.Name, 200)
	return ve.Err()
}
