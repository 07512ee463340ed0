package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the boundary format for calendar dates.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	// Account is a named bucket of money with one fixed currency.
	Account struct {
		ID           int64
		Name         string
		Currency     Currency
		DisplayOrder int
	}

	// Transaction is a signed posting against an account.
	// Positive values are expenses, negative values are incomes.
	// The currency is never stored on the transaction; it comes from the account.
	Transaction struct {
		Seq     int64 // insertion sequence, assigned by storage
		Name    string
		Value   decimal.Decimal
		Date    Date
		Account Account
	}

	// Posting is a transaction that has not been stored yet.
	Posting struct {
		Name      string
		Value     decimal.Decimal
		Date      Date
		AccountID int64
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Label renders the account for listings, e.g. "[PLN] Konto".
func (a Account) Label() string {
	return "[" + a.Currency.String() + "] " + a.Name
}

// Currency is the account currency.
func (t Transaction) Currency() Currency {
	return t.Account.Currency
}

// IsIncome reports whether the transaction brings money in.
func (t Transaction) IsIncome() bool {
	return t.Value.IsNegative()
}

// MonthKey is the grouping identity of the transaction.
func (t Transaction) MonthKey() MonthKey {
	return MonthKeyOf(t.Date)
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.Currency().FormatValue(t.Value))
}

func (p Posting) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
