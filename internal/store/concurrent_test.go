// ABOUTME: Stress tests for concurrent database access.
// ABOUTME: Many goroutines share one Store the way concurrent HTTP requests do.

package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestConcurrentRequestLogWrites(t *testing.T) {
	s := setupTestDB(t)

	numGoroutines := 20
	logsPerGoroutine := 50
	var wg sync.WaitGroup
	var errorCount int32

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				entry := &RequestLog{
					Timestamp:  time.Now(),
					Entity:     []string{"customers", "miners", "work-orders"}[id%3],
					Method:     []string{"GET", "POST", "PUT", "DELETE"}[j%4],
					Path:       fmt.Sprintf("/api/customers/%d", j),
					StatusCode: 200,
					DurationMs: j % 100,
					Operator:   fmt.Sprintf("op-%d", id),
				}
				if err := s.LogRequest(entry); err != nil {
					atomic.AddInt32(&errorCount, 1)
					t.Logf("Error logging request: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	if errorCount > 0 {
		t.Errorf("Expected 0 errors, got %d", errorCount)
	}

	logs, err := s.GetRequestLogs(context.Background(), &RequestLogQuery{Limit: 10000})
	if err != nil {
		t.Fatalf("Failed to retrieve logs: %v", err)
	}
	if want := numGoroutines * logsPerGoroutine; len(logs) != want {
		t.Errorf("Expected %d logs, got %d", want, len(logs))
	}
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var errorCount int32

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			_, err := s.Customers().Create(ctx, Customer{
				Name:   fmt.Sprintf("Customer %d", id),
				Email:  fmt.Sprintf("c%d@example.com", id),
				Status: "ACTIVE",
			})
			if err != nil {
				atomic.AddInt32(&errorCount, 1)
				t.Logf("create: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := s.Customers().List(ctx); err != nil {
					atomic.AddInt32(&errorCount, 1)
					t.Logf("list: %v", err)
				}
				if _, err := s.Counts(ctx); err != nil {
					atomic.AddInt32(&errorCount, 1)
					t.Logf("counts: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if errorCount > 0 {
		t.Errorf("Expected 0 errors, got %d", errorCount)
	}
	all, err := s.Customers().List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 10 {
		t.Errorf("Expected 10 customers, got %d", len(all))
	}
}

// Concurrent upserts on one key leave exactly one row; the last write wins.
func TestConcurrentUpsertsSameKey(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := s.Technicians().Upsert(ctx, Technician{
				Name:   fmt.Sprintf("Tech %d", id),
				Email:  "shared@rigdesk.example",
				Status: "ACTIVE",
			}); err != nil {
				t.Errorf("upsert %d: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	techs, err := s.Technicians().List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(techs) != 1 {
		t.Errorf("Expected 1 technician, got %d", len(techs))
	}
}
