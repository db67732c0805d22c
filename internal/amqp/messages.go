package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names what happened in a user's finances.
type EventType string

const (
	EventTransactionCreated    EventType = "transaction.created"
	EventTransactionDeleted    EventType = "transaction.deleted"
	EventCategoryLimitExceeded EventType = "category.limit_exceeded"
	EventCategoryCreated       EventType = "category.created"
	EventCategoryUpdated       EventType = "category.updated"
	EventCategoryDeleted       EventType = "category.deleted"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTransactionCreated, EventTransactionDeleted, EventCategoryLimitExceeded,
		EventCategoryCreated, EventCategoryUpdated, EventCategoryDeleted:
		return true
	}
	return false
}

// ActivityEvent is the message exported to the activity log.
// Amounts are carried as decimal strings ("12.50") to keep them exact on the wire.
type ActivityEvent struct {
	Type          EventType `json:"type"`
	Username      string    `json:"username"`
	Kind          string    `json:"kind"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Amount        string    `json:"amount,omitempty"`
	Description   string    `json:"description,omitempty"`
	Date          string    `json:"date,omitempty"`
	CategoryID    int64     `json:"category_id,omitempty"`
	Category      string    `json:"category,omitempty"`
	Limit         string    `json:"limit,omitempty"`
	Total         string    `json:"total,omitempty"`
	Exceeded      string    `json:"exceeded,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewActivityEvent stamps a new event with the current time.
func NewActivityEvent(t EventType, username, kind string) *ActivityEvent {
	return &ActivityEvent{
		Type:      t,
		Username:  username,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ActivityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ActivityEventFromJSON decodes and validates an event.
func ActivityEventFromJSON(data []byte) (*ActivityEvent, error) {
	var e ActivityEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if !e.Type.Valid() {
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	return &e, nil
}
