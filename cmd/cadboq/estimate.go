package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/cadboq/internal/parser"
	"github.com/dgallion1/cadboq/internal/pipeline"
	"github.com/dgallion1/cadboq/internal/rates"
	"github.com/dgallion1/cadboq/internal/report"
	"github.com/spf13/cobra"
)

type estimateOptions struct {
	format    string
	output    string
	workers   int
	threshold int
	converter string
	currency  string
	overrides string
}

func newEstimateCmd(root *rootOptions) *cobra.Command {
	opts := &estimateOptions{}
	cmd := &cobra.Command{
		Use:   "estimate <drawing>",
		Short: "Price the components of a drawing",
		Example: `  cadboq estimate plan.dxf
  cadboq estimate plan.dxf --format xlsx -o plan-boq.xlsx
  cadboq estimate plan.dwg --converter /usr/bin/ODAFileConverter --rates rates.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd, root, opts, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "table", "output format: table, json, md, html, txt, xlsx, pdf, docx")
	f.StringVarP(&opts.output, "output", "o", "", "write the report to this file instead of stdout")
	f.IntVar(&opts.workers, "workers", 0, "extraction workers for large drawings (0 = one per CPU)")
	f.IntVar(&opts.threshold, "parallel-threshold", 5000, "entity count above which extraction runs in parallel")
	f.StringVar(&opts.converter, "converter", os.Getenv("ODA_CONVERTER_PATH"), "ODA File Converter executable for .dwg input")
	f.StringVar(&opts.currency, "currency", report.RupeeSymbol, "currency symbol for money columns")
	f.StringVar(&opts.overrides, "override", "", `JSON rate overrides, e.g. '{"doors": 9000}'`)
	return cmd
}

// outputFormat resolves --format; "table" is the terminal rendering.
func outputFormat(name string) (report.Format, error) {
	if name == "table" {
		return report.FormatText, nil
	}
	return report.ParseFormat(name)
}

func runEstimate(cmd *cobra.Command, root *rootOptions, opts *estimateOptions, path string) error {
	format, err := outputFormat(opts.format)
	if err != nil {
		return err
	}
	if format.Binary() && opts.output == "" {
		return fmt.Errorf("%s output is binary, use -o to choose a file", format)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	table, err := root.rateTable()
	if err != nil {
		return fmt.Errorf("load rates: %w", err)
	}
	overrides, err := rates.ParseOverrides(opts.overrides)
	if err != nil {
		return err
	}

	log := root.logger(cmd.ErrOrStderr())
	proc := pipeline.NewProcessor(pipeline.ProcessorConfig{
		Parser: parser.Options{
			ConverterPath:  opts.converter,
			OutputVersion:  os.Getenv("ODA_OUTPUT_VERSION"),
			ConvertTimeout: 2 * time.Minute,
		},
		Rates:             table,
		Currency:          opts.currency,
		ParallelThreshold: opts.threshold,
		ExtractWorkers:    opts.workers,
	}, nil, log)

	out, err := proc.Process(cmd.Context(), pipeline.Request{
		Filename:  filepath.Base(path),
		Data:      data,
		Overrides: overrides,
		Mode:      "cli",
	}, nil)
	if err != nil {
		return err
	}

	body, err := report.Render(out.Report, format)
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(opts.output, body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s, %s)\n", opts.output, format, report.ItemsLabel(len(out.Report.Items)))
	return nil
}
