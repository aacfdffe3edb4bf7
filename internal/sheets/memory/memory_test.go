package memory

import (
	"context"
	"testing"
	"time"

	"moneta/internal/core"
)

func TestStoreUpsert(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := core.MonthOverview{Year: 2025, Month: time.March, Income: core.CentsOf(100)}
	if err := s.WriteMonthOverview(ctx, first); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Same month again replaces, not duplicates.
	second := first
	second.Income = core.CentsOf(200)
	if err := s.WriteMonthOverview(ctx, second); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 exported month, got %d", s.Len())
	}

	got, err := s.ReadMonthOverview(ctx, 2025, time.March)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Income.Cents != 200 {
		t.Fatalf("got %d, want 200", got.Income.Cents)
	}

	if _, err := s.ReadMonthOverview(ctx, 2025, time.April); err == nil {
		t.Fatalf("expected error for missing month")
	}
}
