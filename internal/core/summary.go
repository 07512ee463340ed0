package core

// CurrencyBalance is the floored, negated sum of all values in one currency.
// Positive balances mean net income.
type CurrencyBalance struct {
	Currency Currency
	Balance  int64
}

// AccountBalance is the floored, negated sum of all values of one account.
type AccountBalance struct {
	Account Account
	Label   string
	Balance int64
}
