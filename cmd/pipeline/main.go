package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hmiscli/internal/app"
	"hmiscli/internal/config"
	"hmiscli/internal/dataprocessing"
	"hmiscli/internal/features"
	"hmiscli/internal/modeling"
)

type options struct {
	configFile  string
	name        string
	table       string
	sets        []string
	targets     []string
	classifiers []string
	serve       string
	roc         string
	pr          string
	labelPrefix string
	plotOnly    bool
}

func main() {
	var opts options
	var sets, targets, classifiers string
	flag.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to hmis.yaml or configs/hmis.yaml)")
	flag.StringVar(&opts.name, "name", "", "output directory under the weka directory (required)")
	flag.StringVar(&opts.table, "table", dataprocessing.Master, "cleaned table to model")
	flag.StringVar(&sets, "sets", "all_sets", "comma-separated feature sets")
	flag.StringVar(&targets, "targets", "CaseSuccess", "comma-separated target columns")
	flag.StringVar(&classifiers, "classifiers", "logistic", "comma-separated classifiers")
	flag.StringVar(&opts.serve, "serve", "", "serve run status on this address while modeling")
	flag.StringVar(&opts.roc, "roc", "", "write ROC curves to this PNG after modeling")
	flag.StringVar(&opts.pr, "pr", "", "write precision-recall curves to this PNG after modeling")
	flag.StringVar(&opts.labelPrefix, "label-prefix", "", "prefix for plot legend labels")
	flag.BoolVar(&opts.plotOnly, "plot-only", false, "skip modeling and plot existing thresholds")
	list := flag.Bool("list", false, "list feature sets and classifiers and exit")
	flag.Parse()

	opts.sets = splitList(sets)
	opts.targets = splitList(targets)
	opts.classifiers = splitList(classifiers)

	if *list {
		reg, err := loadRegistry(opts.configFile)
		if err != nil {
			slog.Error("Failed to load feature registry", "error", err)
			os.Exit(1)
		}
		printRegistry(os.Stdout, reg)
		return
	}
	if opts.name == "" {
		fmt.Fprintln(os.Stderr, "-name is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	failed, err := run(ctx, opts)
	if err != nil {
		slog.Error("Pipeline failed", "error", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(3)
	}
}

// run returns the number of models that did not exit cleanly
func run(ctx context.Context, opts options) (int, error) {
	rt, err := app.Bootstrap(ctx, opts.configFile)
	if err != nil {
		return 0, err
	}
	defer rt.Close(context.Background())
	logger := rt.Logger

	reg, err := features.Load(rt.Config.Modeling.FeatureFile)
	if err != nil {
		return 0, err
	}
	models, err := modeling.Models(reg, opts.sets, opts.targets, opts.classifiers)
	if err != nil {
		return 0, err
	}
	data, err := rt.Store.Load(ctx, opts.table)
	if err != nil {
		return 0, err
	}

	script, err := filepath.Abs(rt.Config.Modeling.RunWekaScript)
	if err != nil {
		return 0, err
	}
	p, err := modeling.NewPipeline(data, rt.Paths.ModelDir(opts.name), models,
		modeling.WithScript(script),
		modeling.WithMaxParallel(rt.Config.Modeling.MaxParallel),
		modeling.WithLaunchRate(rt.Config.Modeling.LaunchRate),
		modeling.WithTelemetry(rt.Telemetry),
		modeling.WithLogger(logger))
	if err != nil {
		return 0, err
	}

	if opts.serve != "" {
		cfg := rt.Config.Server
		cfg.Addr = opts.serve
		srv := app.NewStatusServer(cfg, p.Tracker(), rt.Telemetry, logger)
		serveCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := srv.Start(serveCtx, cancel); err != nil {
			return 0, err
		}
		defer srv.Stop(context.Background())
	}

	failed := 0
	if !opts.plotOnly {
		codes, err := p.Model(ctx)
		if err != nil {
			return 0, err
		}
		failed = countFailed(codes)
		printCodes(os.Stdout, codes)
	}

	plot := modeling.PlotOptions{LabelPrefix: opts.labelPrefix}
	if opts.roc != "" {
		if err := p.PlotROC(opts.roc, plot); err != nil {
			return failed, err
		}
	}
	if opts.pr != "" {
		if err := p.PlotPR(opts.pr, plot); err != nil {
			return failed, err
		}
	}

	logger.InfoContext(ctx, "Pipeline complete",
		slog.String("dir", p.Dir()),
		slog.Int("models", len(models)),
		slog.Int("failed", failed))
	return failed, nil
}

func loadRegistry(configFile string) (*features.Registry, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	return features.Load(cfg.Modeling.FeatureFile)
}

func countFailed(codes map[string]int) int {
	n := 0
	for _, c := range codes {
		if c != 0 {
			n++
		}
	}
	return n
}

func printCodes(w io.Writer, codes map[string]int) {
	names := make([]string, 0, len(codes))
	for n := range codes {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "%s\t%d\n", n, codes[n])
	}
}

func printRegistry(w io.Writer, reg *features.Registry) {
	fmt.Fprintln(w, "feature sets:")
	for _, name := range reg.FeatureSetNames() {
		cols, _ := reg.FeatureSet(name)
		fmt.Fprintf(w, "  %s (%d columns)\n", name, len(cols))
	}
	fmt.Fprintln(w, "classifiers:")
	for _, name := range reg.ClassifierNames() {
		cmd, _ := reg.Classifier(name)
		fmt.Fprintf(w, "  %s: %s\n", name, cmd)
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
