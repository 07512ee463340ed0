package core

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the supported currency codes. The zero value is invalid.
type Currency uint8

const (
	PLN Currency = iota + 1
	EUR
	USD
	GBP
)

// ReferenceCurrency is the currency of the consolidated total.
const ReferenceCurrency = EUR

// Adding a currency means adding a row here and a fallback rate below.
var currencyCodes = [...]string{
	PLN: "PLN",
	EUR: "EUR",
	USD: "USD",
	GBP: "GBP",
}

var fallbackRates = map[Currency]decimal.Decimal{
	PLN: decimal.RequireFromString("0.23"),
	EUR: decimal.NewFromInt(1),
	USD: decimal.RequireFromString("0.92"),
	GBP: decimal.RequireFromString("1.18"),
}

// Currencies returns every supported currency in declaration order.
func Currencies() []Currency {
	return []Currency{PLN, EUR, USD, GBP}
}

// ParseCurrency maps a currency code to a Currency.
func ParseCurrency(s string) (Currency, error) {
	for _, c := range Currencies() {
		if currencyCodes[c] == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidCurrency, s)
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	return c >= PLN && c <= GBP
}

func (c Currency) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Currency(%d)", uint8(c))
	}
	return currencyCodes[c]
}

func (c Currency) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCurrency, uint8(c))
	}
	return []byte(currencyCodes[c]), nil
}

func (c *Currency) UnmarshalText(b []byte) error {
	parsed, err := ParseCurrency(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements driver.Valuer.
func (c Currency) Value() (driver.Value, error) {
	b, err := c.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (c *Currency) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return c.UnmarshalText([]byte(v))
	case []byte:
		return c.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidCurrency, src)
	}
}

// FallbackRate is the approximate rate to the reference currency used when
// no rate is stored.
func FallbackRate(c Currency) decimal.Decimal {
	if r, ok := fallbackRates[c]; ok {
		return r
	}
	return decimal.Zero
}

// FormatValue renders a transaction value with the currency symbol.
// Incomes (negative values) are shown negated with a leading "+".
func (c Currency) FormatValue(v decimal.Decimal) string {
	prefix := ""
	if v.IsNegative() {
		prefix = "+"
		v = v.Neg()
	}
	amount := v.String()
	switch c {
	case PLN:
		return prefix + amount + " zł"
	case EUR:
		return prefix + "€" + amount
	case USD:
		return prefix + "$" + amount
	case GBP:
		return prefix + "£" + amount
	default:
		return prefix + strings.TrimSpace(amount+" "+c.String())
	}
}
