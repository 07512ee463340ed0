// Package ledger holds the pure aggregation functions run over transactions
// loaded from the repository: month grouping, per currency and per account
// balances and the approximate total in the reference currency.
package ledger

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"casa/internal/core"
)

// MonthGroup is every transaction of one calendar month.
type MonthGroup struct {
	Month        core.MonthKey
	Transactions []core.Transaction
	Summaries    []MonthSummary
}

// MonthSummary splits the month's values in one currency into money out and
// money in.
type MonthSummary struct {
	Currency    core.Currency
	Expenditure decimal.Decimal // sum of positive values
	Income      decimal.Decimal // negated sum of negative values
	Net         decimal.Decimal // Income - Expenditure
}

// SortTransactions orders transactions newest first: date descending, then
// insertion sequence descending.
func SortTransactions(txs []core.Transaction) {
	slices.SortStableFunc(txs, compareNewestFirst)
}

func compareNewestFirst(a, b core.Transaction) int {
	if c := b.Date.Compare(a.Date.Time); c != 0 {
		return c
	}
	return cmp.Compare(b.Seq, a.Seq)
}

// GroupByMonth partitions txs by month. Groups are ordered newest month first
// and keep the relative order of txs inside each group.
func GroupByMonth(txs []core.Transaction) []MonthGroup {
	index := make(map[core.MonthKey]int)
	var groups []MonthGroup
	for _, tx := range txs {
		key := tx.MonthKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, MonthGroup{Month: key})
		}
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}

	slices.SortFunc(groups, func(a, b MonthGroup) int {
		if c := cmp.Compare(b.Month.Year, a.Month.Year); c != 0 {
			return c
		}
		return cmp.Compare(b.Month.Month, a.Month.Month)
	})
	for i := range groups {
		groups[i].Summaries = Summarize(groups[i].Transactions)
	}
	return groups
}

// Summarize computes expenditure, income and net result of txs for every
// currency appearing in txs, in currency declaration order. Values of
// different currencies are never added together.
func Summarize(txs []core.Transaction) []MonthSummary {
	sums := make(map[core.Currency]*MonthSummary)
	for _, tx := range txs {
		c := tx.Currency()
		s, ok := sums[c]
		if !ok {
			s = &MonthSummary{Currency: c, Expenditure: decimal.Zero, Income: decimal.Zero}
			sums[c] = s
		}
		if tx.IsIncome() {
			s.Income = s.Income.Sub(tx.Value)
		} else {
			s.Expenditure = s.Expenditure.Add(tx.Value)
		}
	}

	out := make([]MonthSummary, 0, len(sums))
	for _, c := range core.Currencies() {
		s, ok := sums[c]
		if !ok {
			continue
		}
		s.Net = s.Income.Sub(s.Expenditure)
		out = append(out, *s)
	}
	return out
}

// Balances returns floor(-sum(value)) for every currency with at least one
// transaction, in currency declaration order.
func Balances(txs []core.Transaction) []core.CurrencyBalance {
	sums := make(map[core.Currency]decimal.Decimal)
	for _, tx := range txs {
		sums[tx.Currency()] = sums[tx.Currency()].Add(tx.Value)
	}

	out := make([]core.CurrencyBalance, 0, len(sums))
	for _, c := range core.Currencies() {
		sum, ok := sums[c]
		if !ok {
			continue
		}
		out = append(out, core.CurrencyBalance{Currency: c, Balance: floorNegated(sum)})
	}
	return out
}

// AccountBalances returns floor(-sum(value)) for every account with at least
// one transaction, ordered by display order and then account id.
func AccountBalances(txs []core.Transaction) []core.AccountBalance {
	sums := make(map[int64]decimal.Decimal)
	accounts := make(map[int64]core.Account)
	for _, tx := range txs {
		id := tx.Account.ID
		sums[id] = sums[id].Add(tx.Value)
		accounts[id] = tx.Account
	}

	out := make([]core.AccountBalance, 0, len(sums))
	for id, sum := range sums {
		a := accounts[id]
		out = append(out, core.AccountBalance{Account: a, Label: a.Label(), Balance: floorNegated(sum)})
	}
	slices.SortFunc(out, func(a, b core.AccountBalance) int {
		if c := cmp.Compare(a.Account.DisplayOrder, b.Account.DisplayOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.Account.ID, b.Account.ID)
	})
	return out
}

// UsedCurrencies lists the currencies appearing in txs in declaration order.
func UsedCurrencies(txs []core.Transaction) []core.Currency {
	seen := make(map[core.Currency]bool)
	for _, tx := range txs {
		seen[tx.Currency()] = true
	}
	var out []core.Currency
	for _, c := range core.Currencies() {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// ReferenceTotal converts every value with its rate to the reference currency
// and returns floor(-sum). The result is an approximation. A currency missing
// from rates is converted with its fallback rate.
func ReferenceTotal(txs []core.Transaction, rates map[core.Currency]decimal.Decimal) int64 {
	sum := decimal.Zero
	for _, tx := range txs {
		rate, ok := rates[tx.Currency()]
		if !ok {
			rate = core.FallbackRate(tx.Currency())
		}
		sum = sum.Add(tx.Value.Mul(rate))
	}
	return floorNegated(sum)
}

// SavingsProgress is the reference total expressed as a percentage of target.
func SavingsProgress(total int64, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	return decimal.NewFromInt(total).Mul(decimal.NewFromInt(100)).Div(target).InexactFloat64()
}

func floorNegated(sum decimal.Decimal) int64 {
	return sum.Neg().Floor().IntPart()
}
