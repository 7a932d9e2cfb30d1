package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sheikh-saqib/double-entry-ledger/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type verifier interface {
	Verify() []ledger.Mismatch
}

func newAccountCmd(current func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add CODE NAME...",
		Short: "Open a new account with a zero balance",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			if err := a.session.Ledger().AddAccount(args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			return a.session.Save(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the chart of accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Chart of Accounts:")
			for acc := range current().session.Ledger().Accounts() {
				fmt.Fprintln(out, acc)
			}
			return nil
		},
	})
	return cmd
}

func newPostCmd(current func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post DEBIT CREDIT AMOUNT [DESCRIPTION...]",
		Short: "Post a transaction from the credit account to the debit account",
		Long: `post adds AMOUNT to DEBIT, subtracts it from CREDIT and records the
transaction in the journal. Zero and negative amounts are posted as given.

Flags must come before DEBIT; everything after it is taken literally,
so "ledger post 100 200 -5 refund" posts -5.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}
			a := current()
			err = a.session.Ledger().PostTransaction(cmd.Context(), args[0], args[1], amount, strings.Join(args[3:], " "))
			if err != nil {
				return err
			}
			return a.session.Save(cmd.Context())
		},
	}
	// Stop flag parsing at DEBIT so a negative AMOUNT isn't read as a shorthand flag.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newJournalCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "journal",
		Short: "Show the journal in posting order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Journal Entries:")
			for tx := range current().session.Ledger().Journal() {
				fmt.Fprintln(out, tx)
			}
			return nil
		},
	}
}

func newVerifyCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every balance against the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, ok := current().session.Ledger().(verifier)
			if !ok {
				return errors.New("ledger does not support verification")
			}
			mismatches := l.Verify()
			out := cmd.OutOrStdout()
			for _, m := range mismatches {
				fmt.Fprintf(out, "%s: stored %s, journal %s\n", m.Code, m.Stored.StringFixed(2), m.Replayed.StringFixed(2))
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d account(s) out of balance with the journal", len(mismatches))
			}
			fmt.Fprintln(out, "all balances match the journal")
			return nil
		},
	}
}
