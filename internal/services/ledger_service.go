package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"casa/internal/amqp"
	"casa/internal/cache"
	"casa/internal/core"
	"casa/internal/ledger"
	"casa/internal/log"
	"casa/internal/metrics"
	"casa/internal/ports"
)

// TransferPrefix starts the name of both postings of an own transfer.
const TransferPrefix = "Przelew własny"

// EventPublisher announces written postings. *amqp.Client and
// *amqp.BreakerPublisher implement it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
}

type LedgerServiceConfig struct {
	// SavingsTarget is the reference currency amount the savings progress is
	// measured against.
	SavingsTarget decimal.Decimal
	// RateCacheTTL keeps looked up exchange rates in memory. Zero disables
	// the cache.
	RateCacheTTL time.Duration
}

func DefaultLedgerServiceConfig() LedgerServiceConfig {
	return LedgerServiceConfig{
		SavingsTarget: decimal.NewFromInt(1_000_000),
		RateCacheTTL:  5 * time.Minute,
	}
}

// LedgerService orchestrates ledger writes and the overview read model.
// Writes go to the store first; events are published afterwards and a
// publishing failure never fails the write.
type LedgerService struct {
	store     ports.LedgerStore
	publisher EventPublisher
	logger    *log.Logger
	metrics   *metrics.Metrics
	config    LedgerServiceConfig
	rates     *cache.TTLCache[core.Currency, decimal.Decimal]
}

// NewLedgerService wires a service. publisher, logger and m may be nil.
func NewLedgerService(store ports.LedgerStore, publisher EventPublisher, logger *log.Logger, m *metrics.Metrics, cfg LedgerServiceConfig) *LedgerService {
	if logger == nil {
		logger = log.Default(log.ComponentLedger)
	}
	s := &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
		metrics:   m,
		config:    cfg,
	}
	if cfg.RateCacheTTL > 0 {
		s.rates = cache.NewTTLCache[core.Currency, decimal.Decimal](cfg.RateCacheTTL)
	}
	return s
}

// AddExpense stores one posting and returns its sequence number.
// The account must exist; nothing is written otherwise.
func (s *LedgerService) AddExpense(ctx context.Context, p core.Posting) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if _, err := s.store.GetAccount(ctx, p.AccountID); err != nil {
		return 0, err
	}

	seq, err := s.store.Add(ctx, p)
	if err != nil {
		s.metrics.IncrFailure(amqp.KindExpense)
		s.logger.ErrorContext(ctx, "Failed to save expense",
			log.NewFields().
				WithOperation(log.OpAppend).
				WithErrorType(log.ErrorTypeDatabase).
				WithError(err).ToSlice()...)
		return 0, fmt.Errorf("save expense: %w", err)
	}
	s.metrics.IncrPostings(amqp.KindExpense, 1)

	s.publish(ctx, amqp.NewLedgerEvent(amqp.KindExpense, []int64{seq}, []int64{p.AccountID}))
	return seq, nil
}

// TransferResult reports the postings written by AddOwnTransfer.
type TransferResult struct {
	Description string
	// Seqs holds the source posting first, then the destination posting.
	Seqs []int64
}

// AddOwnTransfer writes the two postings of a transfer between own accounts
// in one atomic step. The source account gets +AmountFrom (money out) and the
// destination gets -AmountTo (money in).
func (s *LedgerService) AddOwnTransfer(ctx context.Context, t Transfer) (TransferResult, error) {
	if err := t.Validate(); err != nil {
		return TransferResult{}, err
	}

	from, err := s.store.GetAccount(ctx, t.From)
	if err != nil {
		return TransferResult{}, err
	}
	to, err := s.store.GetAccount(ctx, t.To)
	if err != nil {
		return TransferResult{}, err
	}

	desc := TransferDescription(from, to)
	seqs, err := s.store.AddAll(ctx,
		core.Posting{Name: desc, Value: t.AmountFrom, Date: t.Date, AccountID: from.ID},
		core.Posting{Name: desc, Value: t.AmountTo.Neg(), Date: t.Date, AccountID: to.ID},
	)
	if err != nil {
		s.metrics.IncrFailure(amqp.KindTransfer)
		s.logger.ErrorContext(ctx, "Failed to save own transfer",
			log.NewFields().
				WithOperation(log.OpTransfer).
				WithTransfer(from.ID, to.ID).
				WithErrorType(log.ErrorTypeDatabase).
				WithError(err).ToSlice()...)
		return TransferResult{}, fmt.Errorf("save own transfer: %w", err)
	}
	s.metrics.IncrPostings(amqp.KindTransfer, len(seqs))

	s.logger.InfoContext(ctx, "Own transfer saved",
		log.NewFields().
			WithOperation(log.OpTransfer).
			WithTransfer(from.ID, to.ID).ToSlice()...)

	s.publish(ctx, amqp.NewLedgerEvent(amqp.KindTransfer, seqs, []int64{from.ID, to.ID}))
	return TransferResult{Description: desc, Seqs: seqs}, nil
}

// rate returns the rate of c to the reference currency. Only stored rates are
// cached; a fallback answer is asked for again on the next lookup. Lookup
// failures are logged and answered with the fallback rate.
func (s *LedgerService) rate(ctx context.Context, c core.Currency) decimal.Decimal {
	if s.rates != nil {
		if r, ok := s.rates.Get(c); ok {
			return r
		}
	}
	r, stored, err := s.store.ExchangeRateToReference(ctx, c)
	if err != nil {
		s.logger.ErrorContext(ctx, "Exchange rate lookup failed, using fallback",
			log.NewFields().
				WithOperation(log.OpRate).
				WithErrorType(log.ErrorTypeDatabase).
				WithError(err).ToSlice()...)
		return core.FallbackRate(c)
	}
	if stored && s.rates != nil {
		s.rates.Set(c, r)
	}
	return r
}

// TransferDescription names both postings of a transfer.
func TransferDescription(from, to core.Account) string {
	return fmt.Sprintf("%s: %s (#%d) → %s (#%d)", TransferPrefix, from.Label(), from.ID, to.Label(), to.ID)
}

func (s *LedgerService) publish(ctx context.Context, event *amqp.LedgerEvent) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No event publisher configured, skipping ledger event",
			log.FieldEventID, event.ID)
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			log.NewFields().
				WithOperation(log.OpPublish).
				WithErrorType(log.ErrorTypeNetwork).
				WithError(err).ToSlice()...)
	}
}

// Overview is everything the report screen shows.
type Overview struct {
	Months          []ledger.MonthGroup
	Balances        []core.CurrencyBalance
	AccountBalances []core.AccountBalance
	Accounts        []core.Account
	AccountsByID    map[int64]core.Account
	Notepad         string
	Rates           map[core.Currency]decimal.Decimal
	ReferenceTotal  int64
	SavingsProgress float64
}

// Overview loads the ledger and computes every aggregate. Rate lookups that
// fail are logged and replaced by the fallback rate.
func (s *LedgerService) Overview(ctx context.Context) (*Overview, error) {
	start := time.Now()

	var (
		txs      []core.Transaction
		accounts []core.Account
		notepad  string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.store.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		notepad, err = s.store.GetNotepad(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	rates := make(map[core.Currency]decimal.Decimal)
	for _, c := range ledger.UsedCurrencies(txs) {
		rates[c] = s.rate(ctx, c)
	}

	byID := make(map[int64]core.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	total := ledger.ReferenceTotal(txs, rates)
	o := &Overview{
		Months:          ledger.GroupByMonth(txs),
		Balances:        ledger.Balances(txs),
		AccountBalances: ledger.AccountBalances(txs),
		Accounts:        accounts,
		AccountsByID:    byID,
		Notepad:         notepad,
		Rates:           rates,
		ReferenceTotal:  total,
		SavingsProgress: ledger.SavingsProgress(total, s.config.SavingsTarget),
	}

	s.logger.DebugContext(ctx, "Overview computed",
		log.NewFields().
			WithOperation(log.OpReport).
			WithDurationMs(time.Since(start).Milliseconds()).ToSlice()...)
	return o, nil
}
