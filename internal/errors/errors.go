// ABOUTME: Standardized error responses for the REST API.
// ABOUTME: Every failure is written as {"success":false,"error":...} with a machine-readable code.

package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the failure half of the {success, data, error} envelope.
//
// Usage:
//
//	WriteError(w, http.StatusBadRequest, ErrValidationFailed, "name is required")
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`           // Human-readable message, shown to the operator as-is
	Code    string `json:"code"`            // Machine-readable code, e.g. "not_found"
	Field   string `json:"field,omitempty"` // Field that failed validation, if any
	Details string `json:"details,omitempty"`
}

// WriteError writes a failure envelope with the given status.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeErrorResponse(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// WriteErrorWithField writes a failure envelope pointing at the offending field.
func WriteErrorWithField(w http.ResponseWriter, status int, code, message, field string) {
	writeErrorResponse(w, status, ErrorResponse{
		Error: message,
		Code:  code,
		Field: field,
	})
}

// WriteErrorWithDetails writes a failure envelope with extra context for operators.
func WriteErrorWithDetails(w http.ResponseWriter, status int, code, message, details string) {
	writeErrorResponse(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp ErrorResponse) {
	resp.Success = false
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Error codes
const (
	// Client errors (4xx)
	ErrInvalidBody      = "invalid_request_body"
	ErrValidationFailed = "validation_failed"
	ErrNotFound         = "not_found"
	ErrConflict         = "conflict"
	ErrRateLimited      = "rate_limited"

	// Server errors (5xx)
	ErrInternal      = "internal_error"
	ErrDatabaseError = "database_error"
)
