package sheets

import (
	"context"
	"time"
)

// ActivityRow is one line of the exported activity log.
type ActivityRow struct {
	Timestamp   time.Time
	Event       string
	Username    string
	Kind        string
	Date        string
	Description string
	Category    string
	Amount      string
	Detail      string
}

// Values returns the row cells in column order.
func (r ActivityRow) Values() []any {
	return []any{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.Event,
		r.Username,
		r.Kind,
		r.Date,
		r.Description,
		r.Category,
		r.Amount,
		r.Detail,
	}
}

// ActivityHeader is written once when a yearly sheet is created.
var ActivityHeader = []any{"Timestamp", "Event", "User", "Kind", "Date", "Description", "Category", "Amount", "Detail"}

// Ports for outbound adapters.
type ActivityWriter interface {
	AppendActivity(ctx context.Context, row ActivityRow) (rowRef string, err error)
}
