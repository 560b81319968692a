package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/pkg/helpers"
)

func transactionsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Manage transactions",
	}

	cmd.AddCommand(listTransactionsCmd(v))
	cmd.AddCommand(addTransactionCmd(v))
	cmd.AddCommand(deleteTransactionCmd(v))
	return cmd
}

func listTransactionsCmd(v *viper.Viper) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a month's transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd.Context(), v)
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.transactions.ListMonth(ctx, a.uid, month)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "%s\tincome %s\tspend %s\tnet %s\n", list.Month,
				list.Totals.Income.StringFixed(2), list.Totals.Spend.StringFixed(2), list.Totals.Net.StringFixed(2))
			fmt.Fprintln(w, "ID\tDATE\tACCOUNT\tAMOUNT\tPAYEE")
			for _, tx := range list.Transactions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					tx.TransactionID, tx.Date, tx.AccountID, tx.Amount.StringFixed(2), helpers.ValueOr(tx.Payee, "-"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}

func addTransactionCmd(v *viper.Viper) *cobra.Command {
	var (
		account string
		kind    string
		date    string
		payee   string
		note    string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Long: `Record a transaction. A negative amount is money out; pass --kind to
give a magnitude and let the kind set the sign. Without --account the default
account from preferences, or the oldest active account, is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), v)
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.Close()

			tx, err := a.transactions.CreateTransaction(ctx, a.uid, dto.CreateTransactionRequest{
				AccountID: account,
				Kind:      models.TransactionKind(kind),
				Amount:    &amount,
				Date:      date,
				Payee:     &payee,
				Note:      &note,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s on %s (%s)\n", tx.Amount.StringFixed(2), tx.AccountID, tx.TransactionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id")
	cmd.Flags().StringVar(&kind, "kind", "", "EXPENSE or INCOME")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&payee, "payee", "", "payee")
	cmd.Flags().StringVar(&note, "note", "", "note")
	return cmd
}

func deleteTransactionCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), v)
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.transactions.DeleteTransaction(ctx, a.uid, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", args[0])
			return nil
		},
	}
}
