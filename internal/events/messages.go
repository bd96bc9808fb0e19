package events

import (
	"encoding/json"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// RecordEvent announces a record mutation to downstream consumers (the
// budget alert worker). It carries enough to evaluate ceilings without a
// read back, plus the id for consumers that want one.
type RecordEvent struct {
	Kind        core.RecordKind `json:"kind"`
	Action      string          `json:"action"`
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Category    string          `json:"category"`
	AmountCents int64           `json:"amountCents"`
	OccurredOn  time.Time       `json:"occurredOn"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewRecordEvent stamps an event with the current time.
func NewRecordEvent(kind core.RecordKind, action string, id, userID int64, category string, amountCents int64, occurredOn time.Time) *RecordEvent {
	return &RecordEvent{
		Kind:        kind,
		Action:      action,
		ID:          id,
		UserID:      userID,
		Category:    category,
		AmountCents: amountCents,
		OccurredOn:  occurredOn,
		Timestamp:   time.Now(),
	}
}

func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
