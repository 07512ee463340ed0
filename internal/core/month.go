package core

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownMonth is returned by MonthName for out of range input.
const UnknownMonth = "nieznany miesiąc"

var monthNames = [...]string{
	"styczeń",
	"luty",
	"marzec",
	"kwiecień",
	"maj",
	"czerwiec",
	"lipiec",
	"sierpień",
	"wrzesień",
	"październik",
	"listopad",
	"grudzień",
}

// MonthKey identifies a calendar month; the day of a date is discarded.
type MonthKey struct {
	Year  int
	Month int // 1-12
}

// MonthName returns the Polish name of month 1-12.
func MonthName(month int) string {
	if month < 1 || month > len(monthNames) {
		return UnknownMonth
	}
	return monthNames[month-1]
}

func MonthKeyOf(d Date) MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Month()}
}

// ParseMonthKey accepts "2022-12" as well as a full date such as "2022-12-24".
func ParseMonthKey(s string) (MonthKey, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) < 2 {
		return MonthKey{}, fmt.Errorf("%w %q", ErrInvalidMonthKey, s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 0 {
		return MonthKey{}, fmt.Errorf("%w %q", ErrInvalidMonthKey, s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return MonthKey{}, fmt.Errorf("%w %q", ErrInvalidMonthKey, s)
	}
	return MonthKey{Year: year, Month: month}, nil
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%s %d", MonthName(m.Month), m.Year)
}
