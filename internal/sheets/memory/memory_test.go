package memory

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/sheets"
)

func TestMemoryStoreAppend(t *testing.T) {
	s := New()
	ref, err := s.AppendActivity(context.Background(), sheets.ActivityRow{Timestamp: time.Now(), Event: "transaction.created"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("unexpected ref: %s", ref)
	}
	if _, err := s.AppendActivity(context.Background(), sheets.ActivityRow{}); err == nil {
		t.Fatal("expected error for row without timestamp")
	}
	rows := s.Rows()
	if len(rows) != 1 || rows[0].Event != "transaction.created" {
		t.Fatalf("rows = %+v", rows)
	}
}
