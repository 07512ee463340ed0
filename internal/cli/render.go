package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"casa/internal/core"
	"casa/internal/services"
)

func renderOverview(out io.Writer, o *services.Overview, month *core.MonthKey) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "BALANCE")
	for _, b := range o.Balances {
		fmt.Fprintf(w, "  %s\t%d\n", b.Currency, b.Balance)
	}
	fmt.Fprintln(w, "ACCOUNTS")
	for _, b := range o.AccountBalances {
		fmt.Fprintf(w, "  %s\t%d\n", b.Label, b.Balance)
	}
	fmt.Fprintf(w, "TOTAL\t%d %s\n", o.ReferenceTotal, core.ReferenceCurrency)
	fmt.Fprintf(w, "SAVINGS\t%.2f%%\n", o.SavingsProgress)
	if o.Notepad != "" {
		fmt.Fprintf(w, "NOTEPAD\t%s\n", o.Notepad)
	}

	for _, g := range o.Months {
		if month != nil && g.Month != *month {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", g.Month)
		for _, sm := range g.Summaries {
			fmt.Fprintf(w, "  %s\twydatki %s\tprzychody %s\tbilans %s\n",
				sm.Currency, sm.Expenditure, sm.Income, sm.Net)
		}
		for _, tx := range g.Transactions {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", tx.Date, tx.Account.Label(), tx)
		}
	}
	return w.Flush()
}
