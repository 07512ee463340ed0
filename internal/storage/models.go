package storage

import (
	"casa/internal/core"
)

type Account struct {
	ID           int64
	Name         string
	Currency     core.Currency
	DisplayOrder int64
}

type ListTransactionsRow struct {
	Seq                 int64
	Name                string
	Value               string
	Date                string
	AccountID           int64
	AccountName         string
	AccountCurrency     core.Currency
	AccountDisplayOrder int64
}

type InsertTransactionParams struct {
	Name      string
	Value     string
	Date      string
	AccountID int64
}

type CreateAccountParams struct {
	Name         string
	Currency     core.Currency
	DisplayOrder int64
}

type SetKeyValueParams struct {
	Key   string
	Value string
}

type SetExchangeRateParams struct {
	Currency core.Currency
	Rate     string
}
