package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/amqp"
	"fintrack/internal/sheets"
)

// ActivityWorker exports activity events to the spreadsheet activity log.
type ActivityWorker struct {
	writer sheets.ActivityWriter
	logger *slog.Logger
}

func NewActivityWorker(writer sheets.ActivityWriter, logger *slog.Logger) *ActivityWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityWorker{writer: writer, logger: logger}
}

// HandleActivity processes a single activity event from AMQP. A returned
// error makes the consumer requeue the message.
func (w *ActivityWorker) HandleActivity(ctx context.Context, e *amqp.ActivityEvent) error {
	row := RowFromEvent(e)

	ref, err := w.writer.AppendActivity(ctx, row)
	if err != nil {
		return fmt.Errorf("append activity %s: %w", e.Type, err)
	}

	w.logger.InfoContext(ctx, "Activity exported",
		"type", e.Type,
		"username", e.Username,
		"sheets_ref", ref)
	return nil
}

// RowFromEvent flattens an event into the activity sheet columns.
func RowFromEvent(e *amqp.ActivityEvent) sheets.ActivityRow {
	row := sheets.ActivityRow{
		Timestamp:   e.Timestamp,
		Event:       string(e.Type),
		Username:    e.Username,
		Kind:        e.Kind,
		Date:        e.Date,
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount,
	}

	switch e.Type {
	case amqp.EventCategoryLimitExceeded:
		parts := []string{}
		if e.Limit != "" {
			parts = append(parts, "limit "+e.Limit)
		}
		if e.Total != "" {
			parts = append(parts, "total "+e.Total)
		}
		if e.Exceeded != "" {
			parts = append(parts, "over by "+e.Exceeded)
		}
		row.Detail = strings.Join(parts, ", ")
	case amqp.EventTransactionDeleted:
		if e.TransactionID != 0 {
			row.Detail = fmt.Sprintf("transaction #%d removed", e.TransactionID)
		}
	case amqp.EventCategoryCreated, amqp.EventCategoryUpdated, amqp.EventCategoryDeleted:
		if e.CategoryID != 0 {
			row.Detail = fmt.Sprintf("category #%d", e.CategoryID)
		}
		if e.Limit != "" {
			row.Detail = strings.TrimPrefix(row.Detail+", limit "+e.Limit, ", ")
		}
	case amqp.EventTransactionCreated:
		if e.TransactionID != 0 {
			row.Detail = fmt.Sprintf("transaction #%d", e.TransactionID)
		}
	}
	return row
}
