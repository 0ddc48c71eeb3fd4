package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dgallion1/cadboq/internal/rates"
	"github.com/dgallion1/cadboq/internal/report"
	"github.com/spf13/cobra"
)

func newRatesCmd(root *rootOptions) *cobra.Command {
	var currency string
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Print the active rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := root.rateTable()
			if err != nil {
				return fmt.Errorf("load rates: %w", err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tCOMPONENT\tUNIT\tRATE")
			for _, e := range rates.Entries(table) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Key, e.Component, e.Unit, report.FormatMoney(e.Rate, currency))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&currency, "currency", report.RupeeSymbol, "currency symbol")
	return cmd
}
