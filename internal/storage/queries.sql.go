package storage

import (
	"context"

	"casa/internal/core"
)

const insertTransaction = `
INSERT INTO transactions (name, value, date, account_id)
VALUES (?, ?, ?, ?)
RETURNING seq
`

func (q *Queries) InsertTransaction(ctx context.Context, arg InsertTransactionParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertTransaction,
		arg.Name,
		arg.Value,
		arg.Date,
		arg.AccountID,
	)
	var seq int64
	err := row.Scan(&seq)
	return seq, err
}

const listTransactions = `
SELECT t.seq, t.name, t.value, t.date, a.id, a.name, a.currency, a.display_order
FROM transactions t
JOIN accounts a ON a.id = t.account_id
ORDER BY t.date DESC, t.seq DESC
`

func (q *Queries) ListTransactions(ctx context.Context) ([]ListTransactionsRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListTransactionsRow
	for rows.Next() {
		var i ListTransactionsRow
		if err := rows.Scan(
			&i.Seq,
			&i.Name,
			&i.Value,
			&i.Date,
			&i.AccountID,
			&i.AccountName,
			&i.AccountCurrency,
			&i.AccountDisplayOrder,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countTransactions = `SELECT COUNT(*) FROM transactions`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactions)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getAccount = `
SELECT id, name, currency, display_order FROM accounts WHERE id = ?
`

func (q *Queries) GetAccount(ctx context.Context, id int64) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccount, id)
	var i Account
	err := row.Scan(&i.ID, &i.Name, &i.Currency, &i.DisplayOrder)
	return i, err
}

const listAccounts = `
SELECT id, name, currency, display_order FROM accounts ORDER BY display_order, id
`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(&i.ID, &i.Name, &i.Currency, &i.DisplayOrder); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createAccount = `
INSERT INTO accounts (name, currency, display_order)
VALUES (?, ?, ?)
RETURNING id, name, currency, display_order
`

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRowContext(ctx, createAccount, arg.Name, arg.Currency, arg.DisplayOrder)
	var i Account
	err := row.Scan(&i.ID, &i.Name, &i.Currency, &i.DisplayOrder)
	return i, err
}

const getKeyValue = `
SELECT value FROM key_value_store WHERE key = ?
`

func (q *Queries) GetKeyValue(ctx context.Context, key string) (string, error) {
	row := q.db.QueryRowContext(ctx, getKeyValue, key)
	var value string
	err := row.Scan(&value)
	return value, err
}

const setKeyValue = `
INSERT INTO key_value_store (key, value)
VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value
`

func (q *Queries) SetKeyValue(ctx context.Context, arg SetKeyValueParams) error {
	_, err := q.db.ExecContext(ctx, setKeyValue, arg.Key, arg.Value)
	return err
}

const getExchangeRate = `
SELECT rate FROM exchange_rates WHERE currency = ?
`

func (q *Queries) GetExchangeRate(ctx context.Context, currency core.Currency) (string, error) {
	row := q.db.QueryRowContext(ctx, getExchangeRate, currency)
	var rate string
	err := row.Scan(&rate)
	return rate, err
}

const setExchangeRate = `
INSERT INTO exchange_rates (currency, rate)
VALUES (?, ?)
ON CONFLICT (currency) DO UPDATE SET rate = excluded.rate
`

func (q *Queries) SetExchangeRate(ctx context.Context, arg SetExchangeRateParams) error {
	_, err := q.db.ExecContext(ctx, setExchangeRate, arg.Currency, arg.Rate)
	return err
}
