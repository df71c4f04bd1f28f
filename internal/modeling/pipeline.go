package modeling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	apperrors "hmiscli/internal/errors"
	"hmiscli/internal/exporter"
	"hmiscli/internal/infrastructure"
	"hmiscli/internal/table"
)

// Pipeline trains a set of models over one table, writing their inputs
// and outputs under a single directory
type Pipeline struct {
	data        *table.Table
	dir         string
	models      []Model
	script      string
	maxParallel int
	limiter     *rate.Limiter
	tracker     *Tracker
	telemetry   *infrastructure.Telemetry
	logger      *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithScript sets the launcher invoked as `script <dir> <model> <classifier>`
func WithScript(path string) Option {
	return func(p *Pipeline) { p.script = path }
}

// WithMaxParallel caps concurrent classifier processes; zero is unlimited
func WithMaxParallel(n int) Option {
	return func(p *Pipeline) { p.maxParallel = n }
}

// WithLaunchRate limits process starts per second; zero is unlimited
func WithLaunchRate(perSecond float64) Option {
	return func(p *Pipeline) {
		if perSecond > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithTelemetry records spans and model metrics
func WithTelemetry(t *infrastructure.Telemetry) Option {
	return func(p *Pipeline) { p.telemetry = t }
}

// WithLogger sets the pipeline logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline validates models against data and prepares a pipeline
// writing into dir
func NewPipeline(data *table.Table, dir string, models []Model, opts ...Option) (*Pipeline, error) {
	if len(models) == 0 {
		return nil, apperrors.NewValidationError("no models to run")
	}
	if err := Validate(data, models); err != nil {
		return nil, err
	}
	p := &Pipeline{
		data:    data,
		dir:     dir,
		models:  models,
		script:  "run_weka.sh",
		tracker: NewTracker(models),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.telemetry == nil {
		p.telemetry = infrastructure.NoopTelemetry()
	}
	p.logger = infrastructure.WithComponent(p.logger, "pipeline").With(slog.String("dir", dir))
	return p, nil
}

// Models returns the pipeline's models
func (p *Pipeline) Models() []Model { return p.models }

// Dir returns the output directory
func (p *Pipeline) Dir() string { return p.dir }

// Tracker returns the live run statuses
func (p *Pipeline) Tracker() *Tracker { return p.tracker }

// Model writes every training CSV, then runs one classifier process per
// model concurrently and waits for all of them. It returns each model's
// exit code; a process that could not be started reports -1. The error is
// non-nil only when inputs could not be written or ctx ended.
func (p *Pipeline) Model(ctx context.Context) (map[string]int, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	ctx, span := p.telemetry.StartSpan(ctx, "pipeline.model",
		attribute.String("dir", p.dir),
		attribute.Int("models", len(p.models)))
	var err error
	defer func() { infrastructure.EndSpan(span, err) }()

	if err = os.MkdirAll(p.dir, 0o755); err != nil {
		err = apperrors.NewStorageError("create model directory "+p.dir, err)
		return nil, err
	}
	for _, m := range p.models {
		if err = p.writeInput(m); err != nil {
			return nil, err
		}
	}

	p.logger.InfoContext(ctx, "Launching models",
		slog.Int("count", len(p.models)),
		slog.Int("max_parallel", p.maxParallel))

	g, gctx := errgroup.WithContext(ctx)
	if p.maxParallel > 0 {
		g.SetLimit(p.maxParallel)
	}
	for _, m := range p.models {
		if p.limiter != nil {
			if err = p.limiter.Wait(gctx); err != nil {
				break
			}
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p.run(gctx, m)
			return nil
		})
	}
	_ = g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	result := make(map[string]int, len(p.models))
	failed := 0
	for _, s := range p.tracker.List() {
		result[s.Model.Name] = s.ExitCode
		if s.ExitCode != 0 {
			failed++
		}
	}
	p.logger.InfoContext(ctx, "Models finished",
		slog.Int("count", len(p.models)),
		slog.Int("failed", failed))
	return result, err
}

// InputPath is the training CSV for a model
func (p *Pipeline) InputPath(model string) string {
	return filepath.Join(p.dir, model+".csv")
}

// LogPath is the captured classifier output for a model
func (p *Pipeline) LogPath(model string) string {
	return filepath.Join(p.dir, model+".log")
}

// ThresholdsPath is the threshold curve file the classifier writes
func (p *Pipeline) ThresholdsPath(model string) string {
	return filepath.Join(p.dir, model+"_thresholds.csv")
}

func (p *Pipeline) writeInput(m Model) error {
	t, err := TrainingTable(p.data, m)
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("model %s: %v", m.Name, err))
	}
	if err := exporter.NewCSVWriter(p.dir).WriteFile(m.Name+".csv", t, exporter.WekaOptions); err != nil {
		return apperrors.NewStorageError("write training data for "+m.Name, err)
	}
	p.logger.Debug("Wrote training data",
		slog.String("model", m.Name),
		slog.Int("rows", t.Len()))
	return nil
}

func (p *Pipeline) run(ctx context.Context, m Model) {
	ctx, span := p.telemetry.StartSpan(ctx, "pipeline.run",
		attribute.String("model", m.Name),
		attribute.String("classifier", m.Command))
	start := time.Now()
	p.tracker.started(m.Name)
	p.telemetry.Metrics.ModelsLaunched.Add(ctx, 1)

	code, err := p.exec(ctx, m)
	p.tracker.finished(m.Name, code, err)
	p.telemetry.RecordModel(ctx, m.Name, code == 0 && err == nil, time.Since(start))

	logger := p.logger.With(slog.String("model", m.Name), slog.Int("exit_code", code))
	switch {
	case err != nil:
		logger.ErrorContext(ctx, "Model failed to run", slog.String("error", err.Error()))
	case code != 0:
		err = fmt.Errorf("exit status %d", code)
		logger.WarnContext(ctx, "Model exited with error")
	default:
		logger.InfoContext(ctx, "Model finished", slog.Duration("duration", time.Since(start)))
	}
	infrastructure.EndSpan(span, err)
}

// exec runs the launcher and returns its exit code. err is set only when
// the process could not run to completion.
func (p *Pipeline) exec(ctx context.Context, m Model) (int, error) {
	logFile, err := os.Create(p.LogPath(m.Name))
	if err != nil {
		return -1, fmt.Errorf("create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, p.script, p.dir, m.Name, m.Command)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	err = cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case ctx.Err() != nil:
		return -1, ctx.Err()
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, fmt.Errorf("start %s: %w", strings.TrimSpace(p.script), err)
	}
}
