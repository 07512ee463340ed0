// Package core provides the ledger entities and boundary parsing.
//
// This file contains functions for parsing monetary amounts and account ids
// from the strings received at the boundary.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a signed decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign. Exponents, thousands separators and empty input are
// rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,34")  -> 12.34
//	ParseAmount("-50")    -> -50
//	ParseAmount("1e3")    -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	parts := strings.Split(digits, ".")
	if len(parts) > 2 || parts[0]+strings.Join(parts[1:], "") == "" {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidAmount, s)
			}
		}
	}
	canonical := parts[0]
	if canonical == "" {
		canonical = "0"
	}
	if len(parts) == 2 && parts[1] != "" {
		canonical += "." + parts[1]
	}
	if strings.HasPrefix(s, "-") {
		canonical = "-" + canonical
	}
	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParsePositiveAmount is ParseAmount restricted to values greater than zero.
func ParsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w %q: must be positive", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseAccountID parses an account id received as text.
func ParseAccountID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w %q", ErrInvalidID, s)
	}
	return id, nil
}
