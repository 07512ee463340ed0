package core

import (
	"errors"
	"fmt"
)

// ErrParse is the parent of every input validation error.
var ErrParse = errors.New("invalid input")

var (
	ErrInvalidCurrency = fmt.Errorf("%w: unknown currency", ErrParse)
	ErrInvalidMonthKey = fmt.Errorf("%w: invalid month", ErrParse)
	ErrInvalidDate     = fmt.Errorf("%w: invalid date", ErrParse)
	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrParse)
	ErrInvalidID       = fmt.Errorf("%w: invalid account id", ErrParse)
	ErrEmptyName       = fmt.Errorf("%w: empty name", ErrParse)
	ErrSameAccount     = fmt.Errorf("%w: transfer source and destination are the same account", ErrParse)
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrStorage         = errors.New("storage failure")
)

// StorageError wraps a failure of the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true for every StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
