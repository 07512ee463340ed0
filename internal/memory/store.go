// Package memory is an in-process ledger store used for local runs and tests.
// Nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"casa/internal/core"
	"casa/internal/ledger"
	"casa/internal/log"
	"casa/internal/metrics"
)

type Store struct {
	mu       sync.Mutex
	logger   *log.Logger
	metrics  *metrics.Metrics
	seq      int64
	nextID   int64
	accounts map[int64]core.Account
	items    []core.Posting
	seqs     []int64
	rates    map[core.Currency]decimal.Decimal
	notepad  *string
}

func New(logger *log.Logger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = log.Default(log.ComponentStorage)
	}
	return &Store{
		logger:   logger.WithComponent(log.ComponentStorage),
		metrics:  m,
		accounts: make(map[int64]core.Account),
		rates:    make(map[core.Currency]decimal.Decimal),
	}
}

// Add stores the posting and returns its sequence number.
func (s *Store) Add(ctx context.Context, p core.Posting) (int64, error) {
	seqs, err := s.AddAll(ctx, p)
	if err != nil {
		return 0, err
	}
	return seqs[0], nil
}

// AddAll stores every posting or none of them.
func (s *Store) AddAll(_ context.Context, postings ...core.Posting) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range postings {
		if _, ok := s.accounts[p.AccountID]; !ok {
			return nil, &core.StorageError{
				Op:  "insert transaction",
				Err: fmt.Errorf("account %d does not exist", p.AccountID),
			}
		}
	}

	seqs := make([]int64, 0, len(postings))
	for _, p := range postings {
		s.seq++
		s.items = append(s.items, p)
		s.seqs = append(s.seqs, s.seq)
		seqs = append(seqs, s.seq)
	}
	return seqs, nil
}

// List returns every transaction, newest first.
func (s *Store) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := make([]core.Transaction, 0, len(s.items))
	for i, p := range s.items {
		txs = append(txs, core.Transaction{
			Seq:     s.seqs[i],
			Name:    p.Name,
			Value:   p.Value,
			Date:    p.Date,
			Account: s.accounts[p.AccountID],
		})
	}
	ledger.SortTransactions(txs)
	return txs, nil
}

// Balance returns floor(-sum(value)) per currency with at least one transaction.
func (s *Store) Balance(ctx context.Context) ([]core.CurrencyBalance, error) {
	txs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Balances(txs), nil
}

// BalancePerAccount returns floor(-sum(value)) per account with at least one
// transaction.
func (s *Store) BalancePerAccount(ctx context.Context) ([]core.AccountBalance, error) {
	txs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.AccountBalances(txs), nil
}

func (s *Store) GetAccount(_ context.Context, id int64) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return core.Account{}, fmt.Errorf("account %d: %w", id, core.ErrAccountNotFound)
	}
	return a, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Account, 0, len(s.accounts))
	for id := int64(1); id <= s.nextID; id++ {
		if a, ok := s.accounts[id]; ok {
			out = append(out, a)
		}
	}
	sortAccounts(out)
	return out, nil
}

func (s *Store) CreateAccount(_ context.Context, name string, c core.Currency, displayOrder int) (core.Account, error) {
	if name == "" {
		return core.Account{}, core.ErrEmptyName
	}
	if !c.Valid() {
		return core.Account{}, fmt.Errorf("%w: %s", core.ErrInvalidCurrency, c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a := core.Account{ID: s.nextID, Name: name, Currency: c, DisplayOrder: displayOrder}
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) GetNotepad(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notepad == nil {
		return "", nil
	}
	return *s.notepad, nil
}

func (s *Store) SetNotepad(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notepad = &text
	return nil
}

// ExchangeRateToReference answers from the fallback table, with stored
// false, when no rate was set for c.
func (s *Store) ExchangeRateToReference(ctx context.Context, c core.Currency) (decimal.Decimal, bool, error) {
	if c == core.ReferenceCurrency {
		return decimal.NewFromInt(1), true, nil
	}
	s.mu.Lock()
	rate, ok := s.rates[c]
	s.mu.Unlock()
	if ok {
		return rate, true, nil
	}
	fallback := core.FallbackRate(c)
	s.logger.WarnContext(ctx, "Exchange rate missing, using fallback",
		log.FieldCurrency, c.String(),
		log.FieldRate, fallback.String(),
		log.FieldOperation, log.OpRate)
	s.metrics.IncrRateFallback(c.String())
	return fallback, false, nil
}

func (s *Store) SetExchangeRate(_ context.Context, c core.Currency, rate decimal.Decimal) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %s", core.ErrInvalidCurrency, c)
	}
	if !rate.IsPositive() {
		return fmt.Errorf("%w: rate must be positive", core.ErrInvalidAmount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[c] = rate
	return nil
}

func (s *Store) Close() error {
	return nil
}

func sortAccounts(accounts []core.Account) {
	// insertion sort keeps equal display orders in id order
	for i := 1; i < len(accounts); i++ {
		for j := i; j > 0 && accounts[j].DisplayOrder < accounts[j-1].DisplayOrder; j-- {
			accounts[j], accounts[j-1] = accounts[j-1], accounts[j]
		}
	}
}
