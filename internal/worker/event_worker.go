package worker

import (
	"context"
	"fmt"
	"io"

	"casa/internal/amqp"
	"casa/internal/core"
	"casa/internal/ledger"
	"casa/internal/log"
	"casa/internal/ports"
)

// EventWorker resolves consumed ledger events against the local ledger and
// writes one line per posting.
type EventWorker struct {
	reader ports.LedgerReader
	out    io.Writer
	logger *log.Logger
}

func NewEventWorker(reader ports.LedgerReader, out io.Writer, logger *log.Logger) *EventWorker {
	if logger == nil {
		logger = log.Default(log.ComponentAMQP)
	}
	return &EventWorker{
		reader: reader,
		out:    out,
		logger: logger.WithComponent(log.ComponentAMQP),
	}
}

// HandleLedgerEvent prints the postings named by e. Sequences missing from
// the local ledger are reported, not retried: the event may come from
// another store.
func (w *EventWorker) HandleLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error {
	w.logger.DebugContext(ctx, "Processing ledger event",
		log.FieldEventID, e.ID,
		"kind", e.Kind,
		log.FieldCount, len(e.Seqs))

	txs, err := w.reader.List(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	bySeq := make(map[int64]core.Transaction, len(txs))
	for _, tx := range txs {
		bySeq[tx.Seq] = tx
	}

	missing := 0
	for _, seq := range e.Seqs {
		tx, ok := bySeq[seq]
		if !ok {
			missing++
			if _, err := fmt.Fprintf(w.out, "%s #%d (not in local ledger) %s\n", e.Kind, seq, e.ID); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w.out, "%s #%d %s %s: %s\n", e.Kind, tx.Seq, tx.Date, tx.Account.Label(), tx); err != nil {
			return err
		}
	}

	if missing > 0 {
		w.logger.WarnContext(ctx, "Ledger event references unknown postings",
			log.FieldEventID, e.ID,
			"missing", missing,
			log.FieldCount, len(e.Seqs))
	}
	return nil
}

// StartupCheck logs the size and balances of the local ledger before events
// are consumed.
func (w *EventWorker) StartupCheck(ctx context.Context) error {
	txs, err := w.reader.List(ctx)
	if err != nil {
		return fmt.Errorf("list transactions for startup check: %w", err)
	}
	if len(txs) == 0 {
		w.logger.InfoContext(ctx, "Local ledger is empty")
		return nil
	}
	for _, b := range ledger.Balances(txs) {
		w.logger.InfoContext(ctx, "Local balance",
			log.FieldCurrency, b.Currency.String(),
			"balance", b.Balance)
	}
	w.logger.InfoContext(ctx, "Startup check completed", log.FieldCount, len(txs))
	return nil
}
