package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"hmiscli/internal/config"
	apperrors "hmiscli/internal/errors"
	"hmiscli/internal/infrastructure"
	"hmiscli/internal/table"
)

// TableStore persists cleaned tables
type TableStore interface {
	Save(ctx context.Context, name string, t *table.Table) error
	Load(ctx context.Context, name string) (*table.Table, error)
}

// RawSource supplies raw exports and auxiliary tables
type RawSource interface {
	LoadRaw(ctx context.Context, name string) (*table.Table, error)
	LoadAuxiliary(ctx context.Context, name string) (*table.Table, error)
}

// Cleaner turns raw exports into cleaned tables
type Cleaner struct {
	raw       RawSource
	store     TableStore
	dumpDate  time.Time
	switchAt  time.Time
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
}

// CleanerOption configures a Cleaner
type CleanerOption func(*Cleaner)

// WithTelemetry records a span and row metrics per cleaned table
func WithTelemetry(t *infrastructure.Telemetry) CleanerOption {
	return func(c *Cleaner) { c.telemetry = t }
}

// WithCleanerLogger sets the logger
func WithCleanerLogger(l *slog.Logger) CleanerOption {
	return func(c *Cleaner) { c.logger = l }
}

// NewCleaner creates a cleaner reading raw tables from raw and persisting
// through store
func NewCleaner(raw RawSource, store TableStore, cfg config.CleaningConfig, opts ...CleanerOption) *Cleaner {
	c := &Cleaner{
		raw:       raw,
		store:     store,
		dumpDate:  cfg.DumpTime(),
		switchAt:  cfg.SwitchTime(),
		telemetry: infrastructure.NoopTelemetry(),
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = infrastructure.WithComponent(c.logger, "cleaner")
	return c
}

// step carries per-table bookkeeping through a cleaning run
type step struct {
	name     string
	rowsIn   int
	badCells int
}

// Clean loads the raw export for name, cleans it, and saves the result
func (c *Cleaner) Clean(ctx context.Context, name string) (result *table.Table, err error) {
	if _, err := RawName(name); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	ctx = infrastructure.EnsureRunID(ctx)
	ctx, span := c.telemetry.StartSpan(ctx, "clean."+name, attribute.String("table", name))
	defer func() { infrastructure.EndSpan(span, err) }()

	start := time.Now()
	raw, err := c.raw.LoadRaw(ctx, name)
	if err != nil {
		return nil, err
	}

	st := &step{name: name, rowsIn: raw.Len()}
	result, err = c.transform(ctx, st, raw)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, name, result); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	c.telemetry.RecordStep(ctx, name, st.rowsIn, result.Len(), elapsed)
	span.SetAttributes(
		attribute.Int("rows_in", st.rowsIn),
		attribute.Int("rows_out", result.Len()))
	c.logger.InfoContext(ctx, "Cleaned table",
		slog.String("table", name),
		slog.Int("rows_in", st.rowsIn),
		slog.Int("rows_out", result.Len()),
		slog.Int("unparsed_cells", st.badCells),
		slog.Duration("duration", elapsed))
	return result, nil
}

// CleanAll cleans every table, dependencies first, stopping at the first
// failure
func (c *Cleaner) CleanAll(ctx context.Context) error {
	for _, name := range CleanOrder() {
		if _, err := c.Clean(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Transform applies the rules of name to raw without persisting the result.
// Dependencies are still loaded from the store.
func (c *Cleaner) Transform(ctx context.Context, name string, raw *table.Table) (*table.Table, error) {
	if _, err := RawName(name); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return c.transform(ctx, &step{name: name, rowsIn: raw.Len()}, raw)
}

func (c *Cleaner) transform(ctx context.Context, st *step, raw *table.Table) (*table.Table, error) {
	switch st.name {
	case Master, MasterAll:
		return c.cleanMaster(ctx, st, raw)
	case Providers:
		return c.cleanProviders(ctx, st, raw), nil
	case EntryDetails:
		return c.trimBlank(ctx, st, raw), nil
	case EntryDisabilities, ReviewDisabilities:
		return cleanDisabilities(raw), nil
	case EntryIncome, ExitIncome:
		return cleanIncome(st, raw), nil
	case EntryNCB, ExitNCB:
		return cleanNCB(st, raw), nil
	case ReviewDetails:
		return c.cleanReviewDetails(ctx, st, raw), nil
	case Services:
		return cleanServices(st, raw), nil
	}
	// the remaining exports are kept as delivered
	return raw, nil
}

// dependency loads a cleaned table needed by st
func (c *Cleaner) dependency(ctx context.Context, st *step, name string) (*table.Table, error) {
	t, err := c.store.Load(ctx, name)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeNotFound) {
			return nil, apperrors.NewDependencyError(st.name, name, err)
		}
		return nil, err
	}
	return t, nil
}

func (c *Cleaner) trimBlank(ctx context.Context, st *step, t *table.Table) *table.Table {
	trimmed, dropped := t.TrimTrailingBlank()
	if dropped > 0 {
		c.logger.DebugContext(ctx, "Dropped trailing blank rows",
			slog.String("table", st.name),
			slog.Int("rows", dropped))
	}
	return trimmed
}
