package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"casa/internal/core"
	"casa/internal/ledger"
	"casa/internal/log"
	"casa/internal/metrics"

	_ "modernc.org/sqlite"
)

// NotepadKey is the key_value_store key holding the notepad text.
const NotepadKey = "notepad"

// SQLiteRepository is the ledger repository backed by SQLite.
// Transactions are append-only: nothing here updates or deletes them.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
	metrics *metrics.Metrics
}

func NewSQLiteRepository(dbPath string, logger *log.Logger, m *metrics.Metrics) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = log.Default(log.ComponentStorage)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(log.ComponentStorage),
		metrics: m,
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func storageErr(op string, err error) error {
	return &core.StorageError{Op: op, Err: err}
}

// Add inserts one transaction and returns its insertion sequence.
func (r *SQLiteRepository) Add(ctx context.Context, p core.Posting) (int64, error) {
	seq, err := r.queries.InsertTransaction(ctx, insertParams(p))
	if err != nil {
		return 0, storageErr("insert transaction", err)
	}

	r.logger.InfoContext(ctx, "Transaction saved to SQLite",
		log.NewFields().WithPosting(seq, p.Name, p.Value.String(), p.Date.String(), p.AccountID).ToSlice()...)

	return seq, nil
}

// AddAll inserts every posting inside one SQL transaction. Either all rows
// are stored or none is.
func (r *SQLiteRepository) AddAll(ctx context.Context, postings ...core.Posting) ([]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}
	defer tx.Rollback() // no-op after commit

	q := r.queries.WithTx(tx)
	seqs := make([]int64, 0, len(postings))
	for i, p := range postings {
		seq, err := q.InsertTransaction(ctx, insertParams(p))
		if err != nil {
			return nil, storageErr(fmt.Sprintf("insert posting %d of %d", i+1, len(postings)), err)
		}
		seqs = append(seqs, seq)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit transaction", err)
	}

	for i, p := range postings {
		r.logger.InfoContext(ctx, "Transaction saved to SQLite",
			log.NewFields().WithPosting(seqs[i], p.Name, p.Value.String(), p.Date.String(), p.AccountID).ToSlice()...)
	}
	return seqs, nil
}

func insertParams(p core.Posting) InsertTransactionParams {
	return InsertTransactionParams{
		Name:      p.Name,
		Value:     p.Value.String(),
		Date:      p.Date.String(),
		AccountID: p.AccountID,
	}
}

// List returns every transaction, newest first (date desc, then insertion desc).
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}

	txs := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := toTransaction(row)
		if err != nil {
			return nil, storageErr("decode transaction", err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func toTransaction(row ListTransactionsRow) (core.Transaction, error) {
	value, err := decimal.NewFromString(row.Value)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("seq %d value %q: %w", row.Seq, row.Value, err)
	}
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("seq %d: %w", row.Seq, err)
	}
	account := toAccount(Account{
		ID:           row.AccountID,
		Name:         row.AccountName,
		Currency:     row.AccountCurrency,
		DisplayOrder: row.AccountDisplayOrder,
	})
	return core.Transaction{
		Seq:     row.Seq,
		Name:    row.Name,
		Value:   value,
		Date:    date,
		Account: account,
	}, nil
}

func toAccount(a Account) core.Account {
	return core.Account{
		ID:           a.ID,
		Name:         a.Name,
		Currency:     a.Currency,
		DisplayOrder: int(a.DisplayOrder),
	}
}

// Balance returns floor(-sum(value)) per currency with at least one transaction.
func (r *SQLiteRepository) Balance(ctx context.Context) ([]core.CurrencyBalance, error) {
	txs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Balances(txs), nil
}

// BalancePerAccount returns floor(-sum(value)) per account with at least one
// transaction, labelled "[CUR] name".
func (r *SQLiteRepository) BalancePerAccount(ctx context.Context) ([]core.AccountBalance, error) {
	txs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.AccountBalances(txs), nil
}

// GetNotepad returns the notepad text, or "" when it was never set.
func (r *SQLiteRepository) GetNotepad(ctx context.Context) (string, error) {
	value, err := r.queries.GetKeyValue(ctx, NotepadKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", storageErr("get notepad", err)
	}
	return value, nil
}

func (r *SQLiteRepository) SetNotepad(ctx context.Context, text string) error {
	if err := r.queries.SetKeyValue(ctx, SetKeyValueParams{Key: NotepadKey, Value: text}); err != nil {
		return storageErr("set notepad", err)
	}
	return nil
}

// ExchangeRateToReference returns the stored rate of c to the reference
// currency. A missing rate is not an error: the fallback table answers, a
// warning is logged and stored is false.
func (r *SQLiteRepository) ExchangeRateToReference(ctx context.Context, c core.Currency) (rate decimal.Decimal, stored bool, err error) {
	if c == core.ReferenceCurrency {
		return decimal.NewFromInt(1), true, nil
	}

	raw, err := r.queries.GetExchangeRate(ctx, c)
	if errors.Is(err, sql.ErrNoRows) {
		fallback := core.FallbackRate(c)
		r.logger.WarnContext(ctx, "Exchange rate missing, using fallback",
			log.FieldCurrency, c.String(),
			log.FieldRate, fallback.String(),
			log.FieldOperation, log.OpRate)
		r.metrics.IncrRateFallback(c.String())
		return fallback, false, nil
	}
	if err != nil {
		return decimal.Zero, false, storageErr("get exchange rate", err)
	}

	rate, err = decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, storageErr("decode exchange rate", fmt.Errorf("%s rate %q: %w", c, raw, err))
	}
	return rate, true, nil
}

func (r *SQLiteRepository) SetExchangeRate(ctx context.Context, c core.Currency, rate decimal.Decimal) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %s", core.ErrInvalidCurrency, c)
	}
	if !rate.IsPositive() {
		return fmt.Errorf("%w: rate must be positive", core.ErrInvalidAmount)
	}
	if err := r.queries.SetExchangeRate(ctx, SetExchangeRateParams{Currency: c, Rate: rate.String()}); err != nil {
		return storageErr("set exchange rate", err)
	}
	return nil
}

// ListAccounts returns all accounts ordered by display order.
func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	accounts := make([]core.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, toAccount(row))
	}
	return accounts, nil
}

// AccountsByID returns all accounts keyed by id.
func (r *SQLiteRepository) AccountsByID(ctx context.Context) (map[int64]core.Account, error) {
	accounts, err := r.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]core.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return byID, nil
}

// GetAccount returns core.ErrAccountNotFound when id does not exist.
func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	row, err := r.queries.GetAccount(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %d: %w", id, core.ErrAccountNotFound)
	}
	if err != nil {
		return core.Account{}, storageErr("get account", err)
	}
	return toAccount(row), nil
}

// CreateAccount is used by administration tooling; the ledger itself only
// reads accounts.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, name string, c core.Currency, displayOrder int) (core.Account, error) {
	if name == "" {
		return core.Account{}, core.ErrEmptyName
	}
	if !c.Valid() {
		return core.Account{}, fmt.Errorf("%w: %s", core.ErrInvalidCurrency, c)
	}
	row, err := r.queries.CreateAccount(ctx, CreateAccountParams{
		Name:         name,
		Currency:     c,
		DisplayOrder: int64(displayOrder),
	})
	if err != nil {
		return core.Account{}, storageErr("create account", err)
	}

	r.logger.InfoContext(ctx, "Account created",
		log.FieldAccountID, row.ID,
		log.FieldName, row.Name,
		log.FieldCurrency, row.Currency.String())

	return toAccount(row), nil
}

// CountTransactions returns the number of stored transactions.
func (r *SQLiteRepository) CountTransactions(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, storageErr("count transactions", err)
	}
	return n, nil
}
