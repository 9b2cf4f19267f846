// ABOUTME: Tests for the HTML building blocks.
// ABOUTME: Checks escaping, sort indicators, submitting states, and toast encoding.

package admin

import (
	"encoding/json"
	"html/template"
	"strings"
	"testing"

	"github.com/2389/rigdesk/internal/crud"
)

func TestSortHeader(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		dir      crud.SortDirection
		want     string
		wantAria string
	}{
		{"inactive", false, crud.Asc, "", ""},
		{"active asc", true, crud.Asc, "▲", `aria-sort="ascending"`},
		{"active desc", true, crud.Desc, "▼", `aria-sort="descending"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(SortHeader("Name", "/customers?sort=name", tt.active, tt.dir))
			if tt.want == "" {
				if strings.ContainsAny(got, "▲▼") || strings.Contains(got, "aria-sort") {
					t.Errorf("inactive header should carry no indicator: %s", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) || !strings.Contains(got, tt.wantAria) {
				t.Errorf("SortHeader() = %s", got)
			}
		})
	}
}

func TestTableEscapesAndMarksEmptyCells(t *testing.T) {
	got := string(Table(
		[]template.HTML{"Name", "Notes"},
		[]TableRow{{ID: `x"1`, Cells: []string{"<script>alert(1)</script>", ""}}},
		"",
	))
	if strings.Contains(got, "<script>") {
		t.Error("cell text must be escaped")
	}
	if !strings.Contains(got, `data-id="x&#34;1"`) {
		t.Errorf("row id must be escaped: %s", got)
	}
	if !strings.Contains(got, "—") {
		t.Error("empty cell should render a placeholder")
	}
	if strings.Contains(got, "text-right") {
		t.Error("no actions column without a label")
	}
}

func TestSelectFilterAllOption(t *testing.T) {
	none := string(SelectFilter("f_status", "Status", "All", []SelectOption{{Value: "A", Label: "Active"}}))
	if !strings.Contains(none, `<option value="all" selected>`) {
		t.Error("all should be selected when nothing else is")
	}

	one := string(SelectFilter("f_status", "Status", "All", []SelectOption{{Value: "A", Label: "Active", Selected: true}}))
	if strings.Contains(one, `<option value="all" selected>`) || !strings.Contains(one, `<option value="A" selected>`) {
		t.Errorf("selected option not honored: %s", one)
	}
}

func TestFormModalSubmitting(t *testing.T) {
	d := FormModalData{
		Title:           "New",
		Action:          "/customers",
		Inputs:          []FormInput{{Name: "name", Label: "Name", Type: crud.FieldText, Required: true, Value: `a"b`}},
		SubmitLabel:     "Create",
		SubmittingLabel: "Creating…",
	}

	idle := string(FormModal(d))
	if strings.Contains(idle, ` disabled aria-busy`) || !strings.Contains(idle, ">Create</button>") {
		t.Errorf("idle button wrong: %s", idle)
	}
	if !strings.Contains(idle, `value="a&#34;b" required`) {
		t.Errorf("input value should be escaped and required: %s", idle)
	}

	d.Submitting = true
	busy := string(FormModal(d))
	if !strings.Contains(busy, ` disabled aria-busy="true"`) || !strings.Contains(busy, ">Creating…</button>") {
		t.Errorf("submitting button wrong: %s", busy)
	}
}

func TestModalsCarrySubmitGuard(t *testing.T) {
	tests := []struct {
		name string
		html template.HTML
		want string
	}{
		{"form", FormModal(FormModalData{Action: "/customers", SubmitLabel: "Create", SubmittingLabel: "Creating…"}), `data-submitting-label="Creating…"`},
		{"confirm", ConfirmModal(ConfirmModalData{Action: "/customers/1/delete", ConfirmLabel: "Delete", SubmittingLabel: "Deleting…"}), `data-submitting-label="Deleting…"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(tt.html)
			if !strings.Contains(got, "data-submit-guard") {
				t.Errorf("form missing data-submit-guard: %s", got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("button missing %s: %s", tt.want, got)
			}
		})
	}
}

func TestRenderInputTypes(t *testing.T) {
	tests := []struct {
		typ  crud.FieldType
		want string
	}{
		{crud.FieldText, `type="text"`},
		{crud.FieldEmail, `type="email"`},
		{crud.FieldNumber, `type="number"`},
		{crud.FieldDate, `type="date"`},
		{crud.FieldTextarea, `<textarea`},
		{crud.FieldSelect, `<select`},
	}
	for _, tt := range tests {
		got := renderInput(FormInput{Name: "f", Type: tt.typ}, "Select…")
		if !strings.Contains(got, tt.want) {
			t.Errorf("renderInput(%s) = %s", tt.typ, got)
		}
	}
}

func TestToastTrigger(t *testing.T) {
	if _, ok := ToastTrigger(nil); ok {
		t.Error("no toasts means no trigger")
	}

	got, ok := ToastTrigger([]crud.Toast{
		{Kind: crud.ToastError, Message: "first"},
		{Kind: crud.ToastSuccess, Message: "Customer created"},
	})
	if !ok {
		t.Fatal("expected a trigger")
	}
	var decoded struct {
		ShowToast struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"showToast"`
	}
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("trigger is not JSON: %v", err)
	}
	if decoded.ShowToast.Type != "success" || decoded.ShowToast.Message != "Customer created" {
		t.Errorf("trigger = %s", got)
	}
}

func TestStates(t *testing.T) {
	if got := string(EmptyState("Nothing", "", "")); strings.Contains(got, "<a ") {
		t.Error("empty state without CTA should not render a link")
	}
	if got := string(ErrorPanel("Failed", "Retry", "/customers?q=a")); !strings.Contains(got, `href="/customers?q=a"`) || !strings.Contains(got, `role="alert"`) {
		t.Errorf("ErrorPanel() = %s", got)
	}
	if got := string(Toasts([]crud.Toast{{Kind: crud.ToastError, Message: "<b>"}})); !strings.Contains(got, "&lt;b&gt;") || !strings.Contains(got, "bg-red-600") {
		t.Errorf("Toasts() = %s", got)
	}
}
