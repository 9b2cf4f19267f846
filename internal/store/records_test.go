// ABOUTME: Tests for generic named-record tables.
// ABOUTME: Verifies lazy table creation, CRUD, and table name validation.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestRecords_CRUD(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	table, err := s.Records(ctx, "spare_parts")
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}

	r, err := table.Create(ctx, Record{Name: "PSU 3600W"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	r.Name = "PSU 3300W"
	if _, err := table.Update(ctx, r.ID, r); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	list, err := table.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Name != "PSU 3300W" {
		t.Errorf("List() = %+v", list)
	}

	if err := table.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := table.Delete(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestRecords_RejectsUnsafeTableNames(t *testing.T) {
	s := setupTestDB(t)

	for _, name := range []string{"", "Parts", "parts; DROP TABLE customers", "1parts", "spare-parts"} {
		if _, err := s.Records(context.Background(), name); err == nil {
			t.Errorf("Records(%q) error = nil, want error", name)
		}
	}
}

func TestRecords_ExtraFields(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	table, err := s.Records(ctx, "spare_parts")
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}

	var in Record
	if err := json.Unmarshal([]byte(`{"id":"ignored","name":"Fan 12038","sku":"F-120","stock":4}`), &in); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if in.Name != "Fan 12038" || in.Extra["sku"] != "F-120" {
		t.Fatalf("decoded = %+v", in)
	}

	created, err := table.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := table.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Extra["sku"] != "F-120" || got.Extra["stock"] != 4.0 {
		t.Errorf("Extra = %v", got.Extra)
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var flat map[string]any
	json.Unmarshal(data, &flat)
	if flat["sku"] != "F-120" || flat["name"] != "Fan 12038" || flat["id"] != created.ID {
		t.Errorf("flattened JSON = %s", data)
	}
}
