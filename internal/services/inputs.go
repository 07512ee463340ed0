package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"casa/internal/core"
)

// ExpenseInput is an expense or income as received from the outside, every
// field still a string.
type ExpenseInput struct {
	Name      string
	Value     string
	Date      string
	AccountID string
}

// Parse validates the input and converts it to a posting. Errors wrap
// core.ErrParse.
func (in ExpenseInput) Parse() (core.Posting, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return core.Posting{}, core.ErrEmptyName
	}
	value, err := core.ParseAmount(in.Value)
	if err != nil {
		return core.Posting{}, err
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Posting{}, err
	}
	accountID, err := core.ParseAccountID(in.AccountID)
	if err != nil {
		return core.Posting{}, err
	}
	return core.Posting{Name: name, Value: value, Date: date, AccountID: accountID}, nil
}

// TransferInput is an own transfer as received from the outside.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	AmountFrom    string
	AmountTo      string
	Date          string
}

// Transfer moves AmountFrom out of From and AmountTo into To. The two amounts
// differ when the accounts hold different currencies.
type Transfer struct {
	From       int64
	To         int64
	AmountFrom decimal.Decimal
	AmountTo   decimal.Decimal
	Date       core.Date
}

func (in TransferInput) Parse() (Transfer, error) {
	from, err := core.ParseAccountID(in.FromAccountID)
	if err != nil {
		return Transfer{}, err
	}
	to, err := core.ParseAccountID(in.ToAccountID)
	if err != nil {
		return Transfer{}, err
	}
	amountFrom, err := core.ParsePositiveAmount(in.AmountFrom)
	if err != nil {
		return Transfer{}, err
	}
	amountTo, err := core.ParsePositiveAmount(in.AmountTo)
	if err != nil {
		return Transfer{}, err
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return Transfer{}, err
	}
	t := Transfer{From: from, To: to, AmountFrom: amountFrom, AmountTo: amountTo, Date: date}
	return t, t.Validate()
}

// Validate checks the invariants that do not need the store.
func (t Transfer) Validate() error {
	if t.From == t.To {
		return core.ErrSameAccount
	}
	if !t.AmountFrom.IsPositive() || !t.AmountTo.IsPositive() {
		return core.ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return core.ErrInvalidDate
	}
	return nil
}
