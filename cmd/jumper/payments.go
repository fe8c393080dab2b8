package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jumper/internal/chain"
	"github.com/vovakirdan/tui-jumper/internal/storage"
)

var flagPaymentsLimit int

var paymentsCmd = &cobra.Command{
	Use:   "payments [user]",
	Short: "List verified payments from the local database",
	Long: `Print the most recent payments the local ledger has verified for a
user, newest first. Without an argument the configured backend.user_id is used.

Examples:
  jumper payments
  jumper payments alice --limit 50 --db ./jumper.db`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPayments,
}

func init() {
	paymentsCmd.Flags().IntVar(&flagPaymentsLimit, "limit", 20, "Payments to print")
}

func runPayments(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	user := cfg.Backend.UserID
	if len(args) == 1 {
		user = args[0]
	}

	local, err := openLocalBackend(cfg, newLogger(os.Stderr, "jumper"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer local.Close()

	payments, err := local.ledger.Payments(context.Background(), user, flagPaymentsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printPayments(os.Stdout, user, payments)
}

// printPayments writes payments as a plain table.
func printPayments(w io.Writer, user string, payments []storage.Payment) {
	if len(payments) == 0 {
		fmt.Fprintf(w, "No payments recorded for %s.\n", user)
		return
	}

	fmt.Fprintf(w, "  %-16s  %-10s  %-10s  %-9s  %-14s  %s\n", "When", "Type", "Item", "Chain", "Amount", "Tx")
	fmt.Fprintf(w, "  %-16s  %-10s  %-10s  %-9s  %-14s  %s\n", "----", "----", "----", "-----", "------", "--")
	for _, p := range payments {
		item := p.Item
		if item == "" {
			item = "-"
		}
		fmt.Fprintf(w, "  %-16s  %-10s  %-10s  %-9s  %-14s  %s\n",
			p.CreatedAt.Local().Format("2006-01-02 15:04"), p.Type, item, p.Chain,
			chain.Gwei(p.AmountGwei).String(), p.TxHash)
	}
}
