package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GregMSThompson/money-tracker/internal/dto"
	"github.com/GregMSThompson/money-tracker/internal/models"
)

func accountsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account", "acc"},
		Short:   "Manage accounts",
	}

	cmd.AddCommand(listAccountsCmd(v))
	cmd.AddCommand(createAccountCmd(v))
	cmd.AddCommand(archiveAccountCmd(v))
	cmd.AddCommand(setBalanceCmd(v))
	return cmd
}

func listAccountsCmd(v *viper.Viper) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd.Context(), v)
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.Close()

			accounts, err := a.accounts.ListAccounts(ctx, a.uid, all)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}
			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts yet. Use 'ledgerctl accounts create' to add one.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tBALANCE\tARCHIVED")
			for _, acc := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%t\n",
					acc.AccountID, acc.Name, acc.Type, acc.CurrentBalance.StringFixed(2), acc.Currency, acc.Archived)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include archived accounts")
	return cmd
}

func createAccountCmd(v *viper.Viper) *cobra.Command {
	var (
		accountType string
		currency    string
		opening     string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), v)
			req := dto.CreateAccountRequest{
				Name:     args[0],
				Type:     models.AccountType(accountType),
				Currency: currency,
			}
			if opening != "" {
				d, err := decimal.NewFromString(opening)
				if err != nil {
					return fmt.Errorf("invalid opening balance %q: %w", opening, err)
				}
				req.OpeningBalance = &d
			}

			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.Close()

			acc, err := a.accounts.CreateAccount(ctx, a.uid, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s (%s)\n", acc.AccountID, acc.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", string(models.AccountTypeBank), "CASH, BANK, CARD or WALLET")
	cmd.Flags().StringVar(&currency, "currency", "", "3-letter currency code (default EUR)")
	cmd.Flags().StringVar(&opening, "opening", "", "opening balance")
	return cmd
}

func archiveAccountCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <account-id>",
		Short: "Archive an account, keeping its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), v)
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.accounts.ArchiveAccount(ctx, a.uid, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived account %s\n", args[0])
			return nil
		},
	}
}

func setBalanceCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance <account-id> <amount>",
		Short: "Bring an account to a balance with one adjustment transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), v)
			target, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.accounts.SetBalance(ctx, a.uid, args[0], dto.SetBalanceRequest{Balance: &target})
			if err != nil {
				return err
			}
			if res.Adjustment == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Balance already %s, nothing to do\n", res.Target.StringFixed(2))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Adjusted by %s (%s -> %s)\n",
				res.Delta.StringFixed(2), res.Previous.StringFixed(2), res.Target.StringFixed(2))
			return nil
		},
	}
}
