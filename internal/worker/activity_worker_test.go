package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/sheets"
	"fintrack/internal/sheets/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) AppendActivity(context.Context, sheets.ActivityRow) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestHandleActivityWritesRow(t *testing.T) {
	store := memory.New()
	w := NewActivityWorker(store, nil)

	e := amqp.NewActivityEvent(amqp.EventTransactionCreated, "alice", "expense")
	e.TransactionID = 9
	e.Amount = "12.50"
	e.Category = "Food"
	e.Date = "2024-06-10"

	require.NoError(t, w.HandleActivity(context.Background(), e))

	rows := store.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "transaction.created", rows[0].Event)
	assert.Equal(t, "alice", rows[0].Username)
	assert.Equal(t, "12.50", rows[0].Amount)
	assert.Equal(t, "transaction #9", rows[0].Detail)
}

func TestHandleActivityPropagatesWriterError(t *testing.T) {
	w := NewActivityWorker(failingWriter{}, nil)
	err := w.HandleActivity(context.Background(), amqp.NewActivityEvent(amqp.EventTransactionDeleted, "bob", "income"))
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestRowFromEvent(t *testing.T) {
	ts := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		event  amqp.ActivityEvent
		detail string
	}{
		{
			name: "limit exceeded",
			event: amqp.ActivityEvent{
				Type: amqp.EventCategoryLimitExceeded, Timestamp: ts,
				Limit: "100.00", Total: "120.00", Exceeded: "20.00",
			},
			detail: "limit 100.00, total 120.00, over by 20.00",
		},
		{
			name:   "deleted",
			event:  amqp.ActivityEvent{Type: amqp.EventTransactionDeleted, Timestamp: ts, TransactionID: 4},
			detail: "transaction #4 removed",
		},
		{
			name:   "category created with limit",
			event:  amqp.ActivityEvent{Type: amqp.EventCategoryCreated, Timestamp: ts, CategoryID: 7, Category: "Rent", Limit: "250.00"},
			detail: "category #7, limit 250.00",
		},
		{
			name:   "category deleted",
			event:  amqp.ActivityEvent{Type: amqp.EventCategoryDeleted, Timestamp: ts, CategoryID: 7},
			detail: "category #7",
		},
		{
			name:   "created without id",
			event:  amqp.ActivityEvent{Type: amqp.EventTransactionCreated, Timestamp: ts},
			detail: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := RowFromEvent(&tt.event)
			assert.Equal(t, tt.detail, row.Detail)
			assert.Equal(t, ts, row.Timestamp)
			assert.Equal(t, string(tt.event.Type), row.Event)
		})
	}
}
