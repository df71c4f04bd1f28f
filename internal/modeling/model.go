// Package modeling trains external classifiers on every combination of
// feature set, target, and classifier over a cleaned table, and plots the
// resulting threshold curves.
package modeling

import (
	"fmt"
	"sort"
	"strings"

	apperrors "hmiscli/internal/errors"
	"hmiscli/internal/features"
	"hmiscli/internal/table"
)

// Model is one feature set trained against one target by one classifier
type Model struct {
	Name       string   `json:"name"`
	FeatureSet string   `json:"feature_set"`
	Target     string   `json:"target"`
	Classifier string   `json:"classifier"`
	Features   []string `json:"features"`
	Command    string   `json:"command"`
}

// ModelName formats the name a model's files are written under
func ModelName(featureSet, target, classifier string) string {
	return fmt.Sprintf("%s_to_%s_by_%s", featureSet, target, classifier)
}

// Models builds the cross product of the named sets, targets, and
// classifiers, resolving names through reg. The result is sorted by name.
func Models(reg *features.Registry, featureSets, targets, classifiers []string) ([]Model, error) {
	if len(featureSets) == 0 || len(targets) == 0 || len(classifiers) == 0 {
		return nil, apperrors.NewValidationError("at least one feature set, target, and classifier is required")
	}

	sets := make(map[string][]string, len(featureSets))
	for _, name := range featureSets {
		cols, err := reg.FeatureSet(name)
		if err != nil {
			return nil, err
		}
		sets[name] = cols
	}
	commands := make(map[string]string, len(classifiers))
	for _, name := range classifiers {
		cmd, err := reg.Classifier(name)
		if err != nil {
			return nil, err
		}
		commands[name] = cmd
	}

	seen := make(map[string]bool)
	var models []Model
	for _, fs := range featureSets {
		for _, target := range targets {
			for _, c := range classifiers {
				name := ModelName(fs, target, c)
				if seen[name] {
					continue
				}
				seen[name] = true
				models = append(models, Model{
					Name:       name,
					FeatureSet: fs,
					Target:     target,
					Classifier: c,
					Features:   sets[fs],
					Command:    commands[c],
				})
			}
		}
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models, nil
}

// Validate checks that every feature and target column exists in data
func Validate(data *table.Table, models []Model) error {
	missing := make(map[string]bool)
	for _, m := range models {
		for _, col := range append(append([]string(nil), m.Features...), m.Target) {
			if !data.Has(col) {
				missing[col] = true
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	cols := make([]string, 0, len(missing))
	for c := range missing {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return apperrors.NewValidationError("columns not in table: " + strings.Join(cols, ", ")).
		WithContext("missing", cols)
}

// TrainingTable returns the rows and columns written for m: sorted by the
// target descending so every model classifies in the same direction, with
// the target last and null-target rows removed
func TrainingTable(data *table.Table, m Model) (*table.Table, error) {
	cols := append(append([]string(nil), m.Features...), m.Target)
	selected, err := data.SortBy(m.Target, true).Select(cols...)
	if err != nil {
		return nil, err
	}
	return selected.Filter(func(r table.Row) bool { return !r.Get(m.Target).IsNull() }), nil
}

// Select returns the models whose set, target, and classifier are all in
// the given lists; an empty list matches everything
func Select(models []Model, featureSets, targets, classifiers []string) []Model {
	in := func(list []string, v string) bool {
		if len(list) == 0 {
			return true
		}
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	}
	var out []Model
	for _, m := range models {
		if in(featureSets, m.FeatureSet) && in(targets, m.Target) && in(classifiers, m.Classifier) {
			out = append(out, m)
		}
	}
	return out
}
