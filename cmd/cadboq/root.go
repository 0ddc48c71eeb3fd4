package main

import (
	"io"
	"log/slog"

	"github.com/dgallion1/cadboq/internal/rates"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose   bool
	ratesPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "cadboq",
		Short:         "Estimate a bill of quantities from DXF and DWG drawings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline progress to stderr")
	cmd.PersistentFlags().StringVar(&opts.ratesPath, "rates", "", "rate table file (YAML or JSON)")

	cmd.AddCommand(newEstimateCmd(opts), newRatesCmd(opts))
	return cmd
}

// logger discards everything unless --verbose is set.
func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (o *rootOptions) rateTable() (rates.Table, error) {
	if o.ratesPath == "" {
		return rates.Default(), nil
	}
	return rates.LoadFile(o.ratesPath)
}
