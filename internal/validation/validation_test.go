package validation

import (
	"strings"
	"testing"
)

func TestValidationErrors(t *testing.T) {
	ve := &ValidationErrors{}
	if ve.HasErrors() || ve.Err() != nil {
		t.Fatal("empty collector should have no errors")
	}

	RequireField(ve, "name", "  ")
	ValidateEmail(ve, "email", "not-an-email")
	ValidateEnum(ve, "status", "GONE", []string{"ACTIVE", "INACTIVE"})
	ValidateDate(ve, "dueDate", "2026-13-01")
	ValidateNonNegativeFloat(ve, "amount", -1)
	ValidateMaxLength(ve, "notes", strings.Repeat("x", 11), 10)

	if len(ve.Errors) != 6 {
		t.Fatalf("got %d errors, want 6: %v", len(ve.Errors), ve.Errors)
	}
	if ve.Err() == nil {
		t.Error("Err() = nil, want error")
	}
	if !strings.HasPrefix(ve.Error(), "name is required") {
		t.Errorf("Error() = %q", ve.Error())
	}
}

func TestValidators_AcceptValidAndEmpty(t *testing.T) {
	ve := &ValidationErrors{}
	RequireField(ve, "name", "Ada")
	ValidateEmail(ve, "email", "")
	ValidateEmail(ve, "email", "ada@example.com")
	ValidateEnum(ve, "status", "", []string{"ACTIVE"})
	ValidateEnum(ve, "status", "ACTIVE", []string{"ACTIVE"})
	ValidateDate(ve, "dueDate", "")
	ValidateDate(ve, "dueDate", "2026-10-17")
	ValidateNonNegativeFloat(ve, "amount", 0)

	if ve.HasErrors() {
		t.Errorf("unexpected errors: %v", ve.Errors)
	}
}

func TestDefault(t *testing.T) {
	if got := Default("", "ACTIVE"); got != "ACTIVE" {
		t.Errorf("Default(\"\") = %q", got)
	}
	if got := Default(" INACTIVE ", "ACTIVE"); got != "INACTIVE" {
		t.Errorf("Default(\" INACTIVE \") = %q", got)
	}
}
