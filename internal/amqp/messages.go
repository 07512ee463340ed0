package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event kinds.
const (
	KindExpense  = "expense"
	KindTransfer = "transfer"
)

// LedgerEvent announces postings that were just written. Consumers read the
// rows themselves; the message only carries their sequence numbers.
type LedgerEvent struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Seqs       []int64   `json:"seqs"`
	AccountIDs []int64   `json:"account_ids"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event with a fresh id.
func NewLedgerEvent(kind string, seqs, accountIDs []int64) *LedgerEvent {
	return &LedgerEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		Seqs:       seqs,
		AccountIDs: accountIDs,
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON creates a message from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
