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
	"hmiscli/internal/config"
	"hmiscli/internal/dataprocessing"
	"hmiscli/internal/files"
)

func main() {
	configFile := flag.String("config", "", "YAML config file (defaults to hmis.yaml or configs/hmis.yaml)")
	tables := flag.String("tables", "", "comma-separated tables to clean, in dependency order (default: all)")
	list := flag.Bool("list", false, "list the tables, their dependencies, and raw export status, then exit")
	flag.Parse()

	if *list {
		if err := listTables(os.Stdout, *configFile); err != nil {
			slog.Error("Listing failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, *configFile, splitList(*tables)); err != nil {
		slog.Error("Cleaning failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string, tables []string) error {
	rt, err := app.Bootstrap(ctx, configFile)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	loader := dataprocessing.NewLoader(rt.Paths, rt.Logger)
	cleaner := dataprocessing.NewCleaner(loader, rt.Store, rt.Config.Cleaning,
		dataprocessing.WithTelemetry(rt.Telemetry),
		dataprocessing.WithCleanerLogger(rt.Logger))

	rt.Logger.InfoContext(ctx, "Starting cleaning",
		slog.String("raw_dir", rt.Paths.RawDir),
		slog.String("clean_dir", rt.Paths.CleanDir),
		slog.String("storage", rt.Config.Storage.Driver),
		slog.Int("tables", len(tables)))

	if len(tables) == 0 {
		return cleaner.CleanAll(ctx)
	}
	for _, name := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := cleaner.Clean(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func listTables(w io.Writer, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	paths, err := cfg.GetPaths()
	if err != nil {
		return err
	}
	entries, err := dataprocessing.NewLoader(paths, nil).Inventory()
	if err != nil {
		return err
	}
	printTables(w, entries)
	return nil
}

func printTables(w io.Writer, entries []files.Entry) {
	status := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Found {
			status[e.Table] = e.File.Name
		} else {
			status[e.Table] = "missing " + e.Base
		}
	}
	for _, name := range dataprocessing.CleanOrder() {
		line := fmt.Sprintf("%s\t[%s]", name, status[name])
		if deps := dataprocessing.Dependencies(name); len(deps) > 0 {
			line += " needs " + strings.Join(deps, ", ")
		}
		fmt.Fprintln(w, line)
	}
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
