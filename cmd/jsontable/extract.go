package main

import (
	"fmt"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/output"
	"github.com/spf13/cobra"
)

type extractFlags struct {
	opts       jsontable.Options
	headerRow  int
	records    bool
	pretty     bool
	outputPath string
}

func newExtractCmd(a *app) *cobra.Command {
	f := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract <input.xlsx>",
		Short: "Extract one table from a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("header-row") {
				f.opts = f.opts.WithHeaderRow(f.headerRow)
			}
			table, err := a.loader.Extract(args[0], f.opts)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			var v any = table
			if f.records {
				v = output.Records(table)
			}
			jsonData, err := output.ToJSON(v, f.pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			return writeOutput(a.stdout, f.outputPath, jsonData)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.opts.Sheet, "sheet", "", "Sheet name (default: first sheet)")
	flags.StringVar(&f.opts.Range, "range", "", "Cell range, e.g. B2:F20")
	flags.StringVar(&f.opts.SkipRows, "skip-rows", "", "0-based rows to skip, e.g. 0-2,5")
	flags.IntVar(&f.headerRow, "header-row", 0, "0-based row of the first header row")
	flags.IntVar(&f.opts.HeaderRows, "header-rows", 1, "Number of header rows to merge")
	flags.StringVar(&f.opts.HeaderSeparator, "header-separator", "", "Separator for merged header names")
	flags.StringVar(&f.opts.MergeMode, "merge-mode", "", "Merged cell policy: expand, ignore, first-value")
	flags.StringVar(&f.opts.DetectMode, "detect", "", "Data block detection: auto, smart, manual")
	flags.StringVar(&f.opts.DetectHint, "detect-hint", "", "Range used by manual detection")
	flags.BoolVar(&f.opts.UsePrintArea, "print-area", false, "Use the sheet print area as the range")
	flags.BoolVar(&f.opts.AutoHeader, "auto-header", false, "Use a detected header-looking first row as the header")
	flags.BoolVar(&f.records, "records", false, "Output rows as objects keyed by header")
	flags.BoolVar(&f.pretty, "pretty", false, "Pretty-print JSON output")
	flags.StringVarP(&f.outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}
