package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-01", true},
		{" 2024-12-31 ", true},
		{"2024-02-30", false},
		{"2024/01/01", false},
		{"01-01-2024", false},
		{"", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q expected ok, got %v", tc.in, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%q expected error, got %v", tc.in, d)
		}
		if !errors.Is(err, ErrInvalidDate) || !errors.Is(err, ErrParse) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestDateString(t *testing.T) {
	if got := NewDate(2024, 3, 7).String(); got != "2024-03-07" {
		t.Fatalf("expected 2024-03-07, got %s", got)
	}
}

func TestAccountLabel(t *testing.T) {
	a := Account{ID: 3, Name: "Konto", Currency: PLN}
	if got := a.Label(); got != "[PLN] Konto" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestTransactionString(t *testing.T) {
	cases := []struct {
		cur   Currency
		value string
		want  string
	}{
		{PLN, "21.37", "Kremówki (21.37 zł)"},
		{PLN, "-100", "Kremówki (+100 zł)"},
		{EUR, "5.5", "Kremówki (€5.5)"},
		{EUR, "-5.5", "Kremówki (+€5.5)"},
		{USD, "12", "Kremówki ($12)"},
		{USD, "-12", "Kremówki (+$12)"},
		{GBP, "3.10", "Kremówki (£3.1)"},
		{GBP, "-3", "Kremówki (+£3)"},
	}
	for _, tc := range cases {
		tx := Transaction{
			Name:    "Kremówki",
			Value:   decimal.RequireFromString(tc.value),
			Date:    NewDate(2024, 1, 1),
			Account: Account{Currency: tc.cur},
		}
		if got := tx.String(); got != tc.want {
			t.Fatalf("%s %s: expected %q, got %q", tc.cur, tc.value, tc.want, got)
		}
	}
}

func TestTransactionIncome(t *testing.T) {
	tx := Transaction{Value: decimal.NewFromInt(-1)}
	if !tx.IsIncome() {
		t.Fatalf("negative value should be income")
	}
	tx.Value = decimal.NewFromInt(1)
	if tx.IsIncome() {
		t.Fatalf("positive value should be an expense")
	}
}

func TestPostingValidate(t *testing.T) {
	good := Posting{Name: "ok", Value: decimal.NewFromInt(1), Date: NewDate(2024, 1, 1), AccountID: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Posting{
		{Name: "  ", Value: decimal.NewFromInt(1), Date: NewDate(2024, 1, 1), AccountID: 1},
		{Name: "x", Value: decimal.NewFromInt(1), AccountID: 1},
	}
	for i, p := range bads {
		if err := p.Validate(); !errors.Is(err, ErrParse) {
			t.Fatalf("case %d expected parse error, got %v", i, err)
		}
	}
}

func TestStorageErrorIs(t *testing.T) {
	cause := errors.New("disk I/O error")
	var err error = &StorageError{Op: "list transactions", Err: cause}
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if err.Error() != "list transactions: disk I/O error" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("storage error must not be a not-found error")
	}
}
