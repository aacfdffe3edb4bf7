// Package memory is an in-memory export target used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"moneta/internal/core"
	ports "moneta/internal/sheets"
)

type Store struct {
	mu        sync.RWMutex
	overviews map[string]core.MonthOverview
}

var (
	_ ports.OverviewWriter = (*Store)(nil)
	_ ports.OverviewReader = (*Store)(nil)
)

func New() *Store {
	return &Store{overviews: make(map[string]core.MonthOverview)}
}

func (s *Store) WriteMonthOverview(_ context.Context, ov core.MonthOverview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overviews[key(ov.Year, ov.Month)] = ov
	return nil
}

func (s *Store) ReadMonthOverview(_ context.Context, year int, month time.Month) (core.MonthOverview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ov, ok := s.overviews[key(year, month)]
	if !ok {
		return core.MonthOverview{}, fmt.Errorf("month %s not exported", key(year, month))
	}
	return ov, nil
}

// Len reports how many months have been exported.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.overviews)
}

func key(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
