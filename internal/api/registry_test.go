package api

import (
	"sort"
	"testing"
)

func TestPaths_IncludesShopResources(t *testing.T) {
	paths := Paths()
	if !sort.StringsAreSorted(paths) {
		t.Errorf("Paths() not sorted: %v", paths)
	}

	want := []string{"/api/customers", "/api/invoices", "/api/miners", "/api/payments", "/api/technicians", "/api/work-orders"}
	have := make(map[string]bool, len(paths))
	for _, p := range paths {
		have[p] = true
	}
	for _, w := range want {
		if !have[w] {
			t.Errorf("Paths() missing %s", w)
		}
	}
}

func TestRegister_PanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register() with duplicate path did not panic")
		}
	}()
	Register("/api/customers", nil)
}
