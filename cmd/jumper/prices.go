package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jumper/internal/backend"
	"github.com/vovakirdan/tui-jumper/internal/chain"
	"github.com/vovakirdan/tui-jumper/internal/core"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Show what continues and power-ups cost",
	Long: `Print the minimum transfer the backend accepts for each purchase,
per supported chain.

Examples:
  jumper prices`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := printPrices(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

type priceRow struct {
	label string
	typ   backend.PaymentType
	item  string
}

func priceRows() []priceRow {
	rows := []priceRow{{label: "Continue", typ: backend.PaymentContinue}}
	for _, k := range core.InventoryPowerUps {
		rows = append(rows, priceRow{
			label: fmt.Sprintf("%s x%d", k.Name(), backend.PurchaseQuantity),
			typ:   backend.PaymentPowerUp,
			item:  k.String(),
		})
	}
	return append(rows, priceRow{label: "Bundle", typ: backend.PaymentPowerUp, item: backend.ItemBundle})
}

// printPrices writes one column per chain.
func printPrices(w io.Writer) error {
	chains := []chain.Name{chain.Base, chain.HyperEVM}

	fmt.Fprintf(w, "  %-16s", "Item")
	for _, c := range chains {
		fmt.Fprintf(w, "  %-14s", c)
	}
	fmt.Fprintln(w)

	for _, row := range priceRows() {
		fmt.Fprintf(w, "  %-16s", row.label)
		for _, c := range chains {
			price, err := backend.ExpectedPrice(row.typ, row.item, c)
			if err != nil {
				return fmt.Errorf("%s on %s: %w", row.label, c, err)
			}
			fmt.Fprintf(w, "  %-14s", price)
		}
		fmt.Fprintln(w)
	}
	return nil
}
