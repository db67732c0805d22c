// Package memory is an in-process ActivityWriter used by tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []sheets.ActivityRow
}

var _ sheets.ActivityWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendActivity stores the row and returns a synthetic row reference.
func (s *Store) AppendActivity(_ context.Context, row sheets.ActivityRow) (string, error) {
	if row.Timestamp.IsZero() {
		return "", fmt.Errorf("activity row has no timestamp")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []sheets.ActivityRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sheets.ActivityRow, len(s.rows))
	copy(out, s.rows)
	return out
}
