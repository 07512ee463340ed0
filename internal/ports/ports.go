// Package ports declares the storage contracts the ledger service depends on.
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"casa/internal/core"
)

type (
	// LedgerWriter appends postings. AddAll is all-or-nothing.
	LedgerWriter interface {
		Add(ctx context.Context, p core.Posting) (seq int64, err error)
		AddAll(ctx context.Context, postings ...core.Posting) (seqs []int64, err error)
	}

	// LedgerReader returns every transaction, newest first.
	LedgerReader interface {
		List(ctx context.Context) ([]core.Transaction, error)
	}

	// BalanceReader returns floor(-sum(value)) per currency and per account,
	// only for those with at least one transaction.
	BalanceReader interface {
		Balance(ctx context.Context) ([]core.CurrencyBalance, error)
		BalancePerAccount(ctx context.Context) ([]core.AccountBalance, error)
	}

	AccountReader interface {
		// GetAccount returns core.ErrAccountNotFound for unknown ids.
		GetAccount(ctx context.Context, id int64) (core.Account, error)
		// ListAccounts returns accounts ordered by display order.
		ListAccounts(ctx context.Context) ([]core.Account, error)
	}

	NotepadReader interface {
		// GetNotepad returns "" when the notepad was never written.
		GetNotepad(ctx context.Context) (string, error)
	}

	RateReader interface {
		// ExchangeRateToReference falls back to core.FallbackRate when no
		// rate is stored and then reports stored as false.
		ExchangeRateToReference(ctx context.Context, c core.Currency) (rate decimal.Decimal, stored bool, err error)
	}

	// Administrator covers the writes done outside the ledger: accounts,
	// rates and the notepad.
	Administrator interface {
		CreateAccount(ctx context.Context, name string, c core.Currency, displayOrder int) (core.Account, error)
		SetExchangeRate(ctx context.Context, c core.Currency, rate decimal.Decimal) error
		SetNotepad(ctx context.Context, text string) error
	}

	LedgerStore interface {
		LedgerWriter
		LedgerReader
		BalanceReader
		AccountReader
		NotepadReader
		RateReader
	}
)
