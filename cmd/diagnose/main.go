package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"hmiscli/internal/app"
	"hmiscli/internal/dataprocessing"
	"hmiscli/internal/diagnostics"
	"hmiscli/internal/table"
)

type options struct {
	configFile string
	table      string
	unique     []string
	nulls      bool
	sankey     string
	xlsx       string
}

func main() {
	var opts options
	var unique string
	flag.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to hmis.yaml or configs/hmis.yaml)")
	flag.StringVar(&opts.table, "table", dataprocessing.Master, "cleaned table to inspect")
	flag.StringVar(&unique, "unique", "", "comma-separated columns for the unique row summary")
	flag.BoolVar(&opts.nulls, "nulls", false, "print null counts for every column")
	flag.StringVar(&opts.sankey, "sankey", "", "LEFT,RIGHT columns to print as SankeyMATIC input")
	flag.StringVar(&opts.xlsx, "xlsx", "", "write the null counts (and sankey flows) to this workbook")
	flag.Parse()
	opts.unique = splitList(unique)

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, os.Stdout, opts); err != nil {
		slog.Error("Diagnostics failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, opts options) error {
	rt, err := app.Bootstrap(ctx, opts.configFile)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	t, err := rt.Store.Load(ctx, opts.table)
	if err != nil {
		return err
	}
	rt.Logger.InfoContext(ctx, "Loaded table",
		slog.String("table", opts.table),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns())))
	return report(w, t, opts)
}

func report(w io.Writer, t *table.Table, opts options) error {
	left, right, err := sankeyColumns(opts.sankey)
	if err != nil {
		return err
	}
	if len(opts.unique) > 0 {
		if err := diagnostics.UniqueSummary(w, t, opts.unique...); err != nil {
			return err
		}
	}
	if opts.nulls {
		if err := diagnostics.NullSummary(w, t); err != nil {
			return err
		}
	}
	if left != "" {
		if err := diagnostics.Sankey(w, t, left, right); err != nil {
			return err
		}
	}
	if opts.xlsx != "" {
		return diagnostics.WriteWorkbook(opts.xlsx, t, left, right)
	}
	return nil
}

func sankeyColumns(s string) (string, string, error) {
	if s == "" {
		return "", "", nil
	}
	cols := splitList(s)
	if len(cols) != 2 {
		return "", "", fmt.Errorf("-sankey needs LEFT,RIGHT, got %q", s)
	}
	return cols[0], cols[1], nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
