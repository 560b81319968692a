package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GregMSThompson/money-tracker/internal/ledger"
)

// previousMonth returns the month before month, or before the current month
// when month is empty.
func previousMonth(month string, now time.Time) (string, error) {
	m := ledger.MonthOf(now)
	if month != "" {
		var err error
		if m, err = ledger.ParseMonth(month); err != nil {
			return "", err
		}
	}
	return m.Prev().String(), nil
}

func summaryCmd(v *viper.Viper) *cobra.Command {
	var month string
	var prev bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show net worth and the month at a glance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd.Context(), v)
			if prev {
				var err error
				if month, err = previousMonth(month, time.Now()); err != nil {
					return err
				}
			}
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.dashboard.Summary(ctx, a.uid, month)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if s.Empty {
				fmt.Fprintln(out, "Nothing here yet. Create an account to get started.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "Month\t%s\n", s.Month)
			fmt.Fprintf(w, "Net worth\t%s %s\n", s.NetWorth.StringFixed(2), s.Currency)
			fmt.Fprintf(w, "Income\t%s\n", s.MonthIncome.StringFixed(2))
			fmt.Fprintf(w, "Spend\t%s\n", s.MonthSpend.StringFixed(2))
			fmt.Fprintf(w, "Allowance left\t%s\n", s.AllowanceRemaining.StringFixed(2))
			for _, acc := range s.Accounts {
				fmt.Fprintf(w, "  %s\t%s %s\n", acc.Name, acc.CurrentBalance.StringFixed(2), acc.Currency)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	cmd.Flags().BoolVar(&prev, "prev", false, "show the month before --month")
	return cmd
}
