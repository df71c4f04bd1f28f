package modeling

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hmiscli/internal/errors"
	"hmiscli/internal/features"
	"hmiscli/internal/shared/testutil"
	"hmiscli/internal/table"
)

const fakeWeka = `#!/bin/sh
echo "running $2 with $3"
case "$3" in
  fail) echo "classifier crashed" >&2; exit 3 ;;
esac
printf "'False Positive Rate','True Positive Rate',Recall,Precision,Threshold\n0,0,0,1,1\n0.5,0.8,0.8,0.7,0.5\n1,1,1,0.5,0\n" > "$1/$2_thresholds.csv"
`

func testData() *table.Table {
	t := table.New()
	t.Set("Race", []table.Value{table.String("White"), table.String("Black"), table.String("White"), table.Null()})
	t.Set("Age", []table.Value{table.Int(30), table.Int(40), table.Null(), table.Int(50)})
	t.Set("Success", []table.Value{table.Bool(false), table.Bool(true), table.Null(), table.Bool(true)})
	return t
}

func testRegistry(t *testing.T) *features.Registry {
	t.Helper()
	reg := features.Default()
	require.NoError(t, reg.Merge([]byte(`
feature_sets:
  tiny: [Race, Age]
  broken: [Race, Missing]
classifiers:
  good: ok
  bad: fail
`)))
	return reg
}

func writeScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run_weka.sh")
	require.NoError(t, os.WriteFile(path, []byte(fakeWeka), 0o755))
	return path
}

func TestModels(t *testing.T) {
	reg := testRegistry(t)

	models, err := Models(reg, []string{"tiny", "demographics"}, []string{"Success"}, []string{"good", "bad"})
	require.NoError(t, err)
	require.Len(t, models, 4)

	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	assert.Equal(t, []string{
		"demographics_to_Success_by_bad",
		"demographics_to_Success_by_good",
		"tiny_to_Success_by_bad",
		"tiny_to_Success_by_good",
	}, names)
	assert.Equal(t, "fail", models[2].Command)
	assert.Equal(t, []string{"Race", "Age"}, models[2].Features)

	_, err = Models(reg, []string{"nope"}, []string{"Success"}, []string{"good"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = Models(reg, []string{"tiny"}, []string{"Success"}, []string{"svm"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = Models(reg, nil, []string{"Success"}, []string{"good"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestValidate(t *testing.T) {
	reg := testRegistry(t)
	models, err := Models(reg, []string{"broken"}, []string{"Outcome"}, []string{"good"})
	require.NoError(t, err)

	err = Validate(testData(), models)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), "Missing, Outcome")

	_, err = NewPipeline(testData(), t.TempDir(), models)
	assert.Error(t, err)
}

func TestTrainingTable(t *testing.T) {
	m := Model{Name: "m", Features: []string{"Race", "Age"}, Target: "Success"}
	out, err := TrainingTable(testData(), m)
	require.NoError(t, err)

	assert.Equal(t, []string{"Race", "Age", "Success"}, out.Columns())
	require.Equal(t, 3, out.Len())
	assert.Equal(t, "Black", out.Get("Race", 0).Str())
	assert.True(t, out.Get("Race", 1).IsNull())
	assert.Equal(t, "White", out.Get("Race", 2).Str())
	assert.False(t, out.Get("Success", 2).IsTrue())
}

func TestSelect(t *testing.T) {
	models := []Model{
		{Name: "a", FeatureSet: "fs1", Target: "t1", Classifier: "c1"},
		{Name: "b", FeatureSet: "fs1", Target: "t2", Classifier: "c1"},
		{Name: "c", FeatureSet: "fs2", Target: "t1", Classifier: "c2"},
	}
	assert.Len(t, Select(models, nil, nil, nil), 3)
	assert.Len(t, Select(models, []string{"fs1"}, nil, nil), 2)
	got := Select(models, []string{"fs1"}, []string{"t1"}, []string{"c1"})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
	assert.Empty(t, Select(models, []string{"fs3"}, nil, nil))
}

func TestPipelineModel(t *testing.T) {
	reg := testRegistry(t)
	models, err := Models(reg, []string{"tiny"}, []string{"Success"}, []string{"good", "bad"})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "weka", "run")
	logger, logs := testutil.NewLogger()
	p, err := NewPipeline(testData(), dir, models,
		WithScript(writeScript(t)),
		WithMaxParallel(1),
		WithLaunchRate(100),
		WithLogger(logger))
	require.NoError(t, err)

	codes, err := p.Model(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"tiny_to_Success_by_bad":  3,
		"tiny_to_Success_by_good": 0,
	}, codes)

	csv, err := os.ReadFile(p.InputPath("tiny_to_Success_by_good"))
	require.NoError(t, err)
	assert.Equal(t, "\"Race\",\"Age\",\"Success\"\n\"Black\",40,True\n?,50,True\n\"White\",30,False\n", string(csv))

	log, err := os.ReadFile(p.LogPath("tiny_to_Success_by_bad"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "running tiny_to_Success_by_bad with fail")
	assert.Contains(t, string(log), "classifier crashed")

	good, ok := p.Tracker().Get("tiny_to_Success_by_good")
	require.True(t, ok)
	assert.Equal(t, StateSucceeded, good.State)
	assert.False(t, good.FinishedAt.IsZero())
	bad, _ := p.Tracker().Get("tiny_to_Success_by_bad")
	assert.Equal(t, StateFailed, bad.State)
	assert.Equal(t, map[State]int{StateSucceeded: 1, StateFailed: 1}, p.Tracker().Counts())

	warn := testutil.AssertLogged(t, logs, slog.LevelWarn, "Model exited with error")
	assert.Equal(t, "tiny_to_Success_by_bad", warn.Attrs["model"])
	assert.Equal(t, int64(3), warn.Attrs["exit_code"])
	testutil.AssertNoErrors(t, logs)

	roc := filepath.Join(dir, "roc.png")
	require.NoError(t, p.PlotROC(roc, PlotOptions{LabelPrefix: "v1 "}))
	assert.FileExists(t, roc)

	pr := filepath.Join(dir, "pr.png")
	require.NoError(t, p.PlotPR(pr, PlotOptions{Classifiers: []string{"good"}}))
	assert.FileExists(t, pr)

	err = p.PlotPR(pr, PlotOptions{Classifiers: []string{"bad"}})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	err = p.PlotPR(pr, PlotOptions{Targets: []string{"Other"}})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestPipelineMissingScript(t *testing.T) {
	models, err := Models(testRegistry(t), []string{"tiny"}, []string{"Success"}, []string{"good"})
	require.NoError(t, err)

	p, err := NewPipeline(testData(), t.TempDir(), models,
		WithScript(filepath.Join(t.TempDir(), "absent.sh")))
	require.NoError(t, err)

	codes, err := p.Model(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -1, codes["tiny_to_Success_by_good"])

	s, _ := p.Tracker().Get("tiny_to_Success_by_good")
	assert.Equal(t, StateFailed, s.State)
	assert.NotEmpty(t, s.Error)
}

func TestPipelineCanceled(t *testing.T) {
	models, err := Models(testRegistry(t), []string{"tiny"}, []string{"Success"}, []string{"good", "bad"})
	require.NoError(t, err)
	p, err := NewPipeline(testData(), t.TempDir(), models, WithScript(writeScript(t)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	codes, err := p.Model(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	for _, code := range codes {
		assert.Equal(t, -1, code)
	}
	assert.Equal(t, 2, p.Tracker().Counts()[StatePending])
}

func TestReadThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m_thresholds.csv")
	require.NoError(t, os.WriteFile(path, []byte("False Positive Rate,'True Positive Rate'\n0,0\n?,0.3\n1,1\n"), 0o644))

	xys, err := ReadThresholds(path, ROC)
	require.NoError(t, err)
	require.Len(t, xys, 2)
	assert.Equal(t, 1.0, xys[1].X)

	_, err = ReadThresholds(path, PR)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))

	_, err = ReadThresholds(filepath.Join(t.TempDir(), "none.csv"), ROC)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
