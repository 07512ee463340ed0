package amqp

import (
	"errors"
	"testing"
)

func TestLedgerEventJSON(t *testing.T) {
	event := NewLedgerEvent(KindTransfer, []int64{7, 8}, []int64{1, 2})
	if event.ID == "" {
		t.Fatalf("event id must be set")
	}

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := LedgerEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != event.ID || back.Kind != KindTransfer || len(back.Seqs) != 2 || back.Seqs[1] != 8 {
		t.Fatalf("unexpected event %+v", back)
	}
	if !back.Timestamp.Equal(event.Timestamp) {
		t.Fatalf("timestamp changed: %v vs %v", back.Timestamp, event.Timestamp)
	}
}

func TestNewLedgerEventUniqueIDs(t *testing.T) {
	a := NewLedgerEvent(KindExpense, []int64{1}, []int64{1})
	b := NewLedgerEvent(KindExpense, []int64{1}, []int64{1})
	if a.ID == b.ID {
		t.Fatalf("ids must differ")
	}
}

func TestHandleDelivery(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		handlerErr error
		wantErr    bool
		wantDecode bool
	}{
		{name: "valid", body: `{"id":"x","kind":"expense","seqs":[1]}`},
		{name: "malformed", body: `{not json`, wantErr: true, wantDecode: true},
		{name: "handler failure", body: `{"id":"x"}`, handlerErr: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := handleDelivery([]byte(tt.body), func(e *LedgerEvent) error {
				called = true
				return tt.handlerErr
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if isDecodeError(err) != tt.wantDecode {
				t.Fatalf("decode classification wrong for %v", err)
			}
			if tt.wantDecode && called {
				t.Fatalf("handler must not run for malformed messages")
			}
		})
	}
}
