package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"casa/internal/amqp"
	"casa/internal/backend"
	"casa/internal/config"
	"casa/internal/core"
	"casa/internal/log"
	"casa/internal/seed"
	"casa/internal/services"
	"casa/internal/storage"
	"casa/internal/worker"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.DataBackend != config.BackendSQLite {
				return fmt.Errorf("migrate needs the sqlite backend, got %s", a.cfg.DataBackend)
			}
			if err := storage.RunMigrations(a.cfg.SQLiteDBPath); err != nil {
				a.logger.LogError(cmd.Context(), "Migration failed", err, log.ErrorTypeDatabase, log.OpMigrate)
				return err
			}
			fmt.Fprintf(a.stdout, "Database %s is up to date\n", a.cfg.SQLiteDBPath)
			return nil
		},
	}
}

func (a *app) accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	var order int
	add := &cobra.Command{
		Use:   "add NAME CURRENCY",
		Short: "Create an account holding one currency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := core.ParseCurrency(strings.ToUpper(args[1]))
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				acc, err := res.Store.CreateAccount(cmd.Context(), strings.TrimSpace(args[0]), c, order)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Created account #%d %s\n", acc.ID, acc.Label())
				return nil
			})
		},
	}
	add.Flags().IntVar(&order, "order", 0, "display order")

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				accounts, err := res.Store.ListAccounts(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tACCOUNT\tORDER")
				for _, acc := range accounts {
					fmt.Fprintf(w, "%d\t%s\t%d\n", acc.ID, acc.Label(), acc.DisplayOrder)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func (a *app) rateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Manage exchange rates to EUR",
	}
	set := &cobra.Command{
		Use:   "set CURRENCY RATE",
		Short: "Store the rate converting CURRENCY to EUR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := core.ParseCurrency(strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			rate, err := core.ParsePositiveAmount(args[1])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				if err := res.Store.SetExchangeRate(cmd.Context(), c, rate); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "1 %s = %s %s\n", c, rate, core.ReferenceCurrency)
				return nil
			})
		},
	}
	cmd.AddCommand(set)
	return cmd
}

func (a *app) notepadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notepad",
		Short: "Read or replace the free-text notepad",
	}
	set := &cobra.Command{
		Use:   "set TEXT...",
		Short: "Replace the notepad text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				return res.Store.SetNotepad(cmd.Context(), strings.Join(args, " "))
			})
		},
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the notepad text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				text, err := res.Store.GetNotepad(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, text)
				return nil
			})
		},
	}
	cmd.AddCommand(set, show)
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create accounts, rates and the notepad from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				r, err := seed.Apply(cmd.Context(), res.Store, f, a.logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Imported %d accounts (%d already present), %d rates\n",
					r.AccountsCreated, r.AccountsSkipped, r.RatesSet)
				return nil
			})
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME VALUE DATE ACCOUNT_ID",
		Short: "Record an expense (positive value) or income (negative value)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := services.ExpenseInput{
				Name:      args[0],
				Value:     args[1],
				Date:      args[2],
				AccountID: args[3],
			}.Parse()
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				seq, err := res.Service.AddExpense(cmd.Context(), p)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Saved #%d %s on %s\n", seq, p.Name, p.Date)
				return nil
			})
		},
	}
}

func (a *app) transferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer FROM_ID TO_ID AMOUNT_FROM AMOUNT_TO DATE",
		Short: "Move money between two own accounts",
		Long: `transfer records AMOUNT_FROM leaving FROM_ID and AMOUNT_TO arriving on
TO_ID as one atomic pair of postings. The amounts differ when the accounts hold
different currencies.`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := services.TransferInput{
				FromAccountID: args[0],
				ToAccountID:   args[1],
				AmountFrom:    args[2],
				AmountTo:      args[3],
				Date:          args[4],
			}.Parse()
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				result, err := res.Service.AddOwnTransfer(cmd.Context(), t)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Saved #%d and #%d %s\n", result.Seqs[0], result.Seqs[1], result.Description)
				return nil
			})
		},
	}
}

func (a *app) reportCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show balances, totals and transactions grouped by month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter *core.MonthKey
			if month != "" {
				key, err := core.ParseMonthKey(month)
				if err != nil {
					return err
				}
				filter = &key
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				o, err := res.Service.Overview(cmd.Context())
				if err != nil {
					return err
				}
				return renderOverview(a.stdout, o, filter)
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "only list transactions of this month (YYYY-MM)")
	return cmd
}

func (a *app) eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect ledger events published to AMQP",
	}
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print ledger events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is not configured")
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue, a.logger)
				if err != nil {
					return err
				}
				defer client.Close()

				ctx, cancel := GracefulShutdown(cmd.Context(), a.logger, nil)
				defer cancel()

				w := worker.NewEventWorker(res.Store, a.stdout, a.logger)
				if err := w.StartupCheck(ctx); err != nil {
					return err
				}
				err = client.ConsumeLedgerEvents(ctx, func(e *amqp.LedgerEvent) error {
					return w.HandleLedgerEvent(ctx, e)
				})
				if errors.Is(err, ctx.Err()) {
					return nil
				}
				return err
			})
		},
	}
	cmd.AddCommand(watch)
	return cmd
}
