// ABOUTME: Unit tests for standardized error response helpers
// ABOUTME: Validates the failure envelope shape, status codes, and headers

package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    string
		message string
	}{
		{"validation failure", http.StatusBadRequest, ErrValidationFailed, "name is required"},
		{"not found", http.StatusNotFound, ErrNotFound, "customer not found"},
		{"conflict", http.StatusConflict, ErrConflict, "customer is still referenced"},
		{"internal", http.StatusInternalServerError, ErrInternal, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.status, tt.code, tt.message)

			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
			if body["error"] != tt.message {
				t.Errorf("error = %v, want %q", body["error"], tt.message)
			}
			if body["code"] != tt.code {
				t.Errorf("code = %v, want %q", body["code"], tt.code)
			}
			if _, ok := body["field"]; ok {
				t.Error("field should be omitted when empty")
			}
		})
	}
}

func TestWriteErrorWithField(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteErrorWithField(rr, http.StatusBadRequest, ErrValidationFailed, "must be a valid email address", "email")

	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Field != "email" {
		t.Errorf("Field = %q, want email", resp.Field)
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
}

func TestWriteErrorWithDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteErrorWithDetails(rr, http.StatusInternalServerError, ErrDatabaseError, "failed to save", "database is locked")

	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Details != "database is locked" {
		t.Errorf("Details = %q", resp.Details)
	}
}
