package modeling

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"hmiscli/internal/dataprocessing"
	apperrors "hmiscli/internal/errors"
)

// Curve names the threshold columns drawn on each axis
type Curve struct {
	X string
	Y string
}

var (
	// ROC is the receiver operating characteristic
	ROC = Curve{X: "'False Positive Rate'", Y: "'True Positive Rate'"}
	// PR is the precision-recall curve
	PR = Curve{X: "Recall", Y: "Precision"}
)

// PlotOptions select the models drawn; empty lists select everything
type PlotOptions struct {
	FeatureSets []string
	Targets     []string
	Classifiers []string
	LabelPrefix string
	// Size of the square image, default 6 inches
	Size vg.Length
}

// PlotROC draws ROC curves for the selected models into a PNG at path
func (p *Pipeline) PlotROC(path string, opts PlotOptions) error {
	return p.Plot(path, ROC, opts)
}

// PlotPR draws precision-recall curves for the selected models into a PNG at path
func (p *Pipeline) PlotPR(path string, opts PlotOptions) error {
	return p.Plot(path, PR, opts)
}

// Plot draws one line per selected model from its thresholds file. Models
// without a thresholds file are skipped; it is an error if none have one.
func (p *Pipeline) Plot(path string, c Curve, opts PlotOptions) error {
	models := Select(p.models, opts.FeatureSets, opts.Targets, opts.Classifiers)
	if len(models) == 0 {
		return apperrors.NewValidationError("no models match the plot selection")
	}

	pl := plot.New()
	pl.X.Label.Text = strings.Trim(c.X, "'")
	pl.Y.Label.Text = strings.Trim(c.Y, "'")
	pl.X.Min, pl.X.Max = 0, 1
	pl.Y.Min, pl.Y.Max = 0, 1
	pl.Legend.Top = false
	pl.Legend.Left = false
	pl.Add(plotter.NewGrid())

	drawn := 0
	for i, m := range models {
		xys, err := ReadThresholds(p.ThresholdsPath(m.Name), c)
		if errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("No thresholds for model", slog.String("model", m.Name))
			continue
		}
		if err != nil {
			return err
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("plot %s: %w", m.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i / 7)
		pl.Add(line)
		pl.Legend.Add(opts.LabelPrefix+m.Name, line)
		drawn++
	}
	if drawn == 0 {
		return apperrors.NewNotFoundError("thresholds for the selected models in " + p.dir)
	}

	size := opts.Size
	if size == 0 {
		size = 6 * vg.Inch
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewStorageError("create plot directory", err)
	}
	if err := pl.Save(size, size, path); err != nil {
		return apperrors.NewStorageError("save plot "+path, err)
	}
	p.logger.Info("Saved plot",
		slog.String("path", path),
		slog.Int("curves", drawn))
	return nil
}

// ReadThresholds reads the curve's two columns from a thresholds CSV.
// Header names match with or without surrounding single quotes.
func ReadThresholds(path string, c Curve) (plotter.XYs, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	t, err := dataprocessing.ReadCSVFile(path, func(s string) bool { return s == "" || s == "?" })
	if err != nil {
		return nil, apperrors.NewParsingError("read thresholds "+path, err)
	}
	xcol, ok := findColumn(t.Columns(), c.X)
	if !ok {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no column %s", path, c.X), nil)
	}
	ycol, ok := findColumn(t.Columns(), c.Y)
	if !ok {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no column %s", path, c.Y), nil)
	}

	xys := make(plotter.XYs, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		x, xok := number(t.Get(xcol, i).Str())
		y, yok := number(t.Get(ycol, i).Str())
		if !xok || !yok {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
	}
	return xys, nil
}

func findColumn(columns []string, name string) (string, bool) {
	bare := strings.Trim(name, "'")
	for _, col := range columns {
		if col == name || strings.Trim(col, "'") == bare {
			return col, true
		}
	}
	return "", false
}

func number(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}
