// Package features holds the named column groups used as model inputs and
// the classifier command lines they are trained with.
package features

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	apperrors "hmiscli/internal/errors"
)

// Registry resolves feature set and classifier names
type Registry struct {
	sets        map[string][]string
	classifiers map[string]string
}

// File is the YAML layout of a registry override file. A set entry of the
// form "@name" expands to the members of another set.
type File struct {
	FeatureSets map[string][]string `yaml:"feature_sets"`
	Classifiers map[string]string   `yaml:"classifiers"`
}

// Default returns the built-in registry
func Default() *Registry {
	r := &Registry{
		sets:        make(map[string][]string, len(builtinSets)),
		classifiers: make(map[string]string, len(builtinClassifiers)),
	}
	for k, v := range builtinSets {
		r.sets[k] = append([]string(nil), v...)
	}
	for k, v := range builtinClassifiers {
		r.classifiers[k] = v
	}
	return r
}

// Load returns the built-in registry extended by the YAML file at path.
// An empty path yields the defaults.
func Load(path string) (*Registry, error) {
	r := Default()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("read feature file "+path, err)
	}
	if err := r.Merge(data); err != nil {
		return nil, apperrors.NewConfigError("parse feature file "+path, err)
	}
	return r, nil
}

// Merge adds or overrides sets and classifiers from YAML data
func (r *Registry) Merge(data []byte) error {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return err
	}
	names := make([]string, 0, len(f.FeatureSets))
	for name := range f.FeatureSets {
		names = append(names, name)
	}
	// references resolve against sets already present, so define
	// referenced sets first or rely on the built-ins
	sort.Strings(names)
	for _, name := range names {
		cols, err := r.expand(f.FeatureSets[name])
		if err != nil {
			return fmt.Errorf("feature set %s: %w", name, err)
		}
		r.sets[name] = cols
	}
	for name, cmd := range f.Classifiers {
		if strings.TrimSpace(cmd) == "" {
			return fmt.Errorf("classifier %s: empty command", name)
		}
		r.classifiers[name] = cmd
	}
	return nil
}

func (r *Registry) expand(entries []string) ([]string, error) {
	var out []string
	for _, e := range entries {
		ref, isRef := strings.CutPrefix(e, "@")
		if !isRef {
			out = append(out, e)
			continue
		}
		cols, ok := r.sets[ref]
		if !ok {
			return nil, fmt.Errorf("unknown feature set reference %q", e)
		}
		out = append(out, cols...)
	}
	return out, nil
}

// FeatureSet returns the columns of a named set
func (r *Registry) FeatureSet(name string) ([]string, error) {
	cols, ok := r.sets[name]
	if !ok {
		return nil, apperrors.NewNotFoundError("feature set " + name)
	}
	return append([]string(nil), cols...), nil
}

// Classifier returns the command line of a named classifier
func (r *Registry) Classifier(name string) (string, error) {
	cmd, ok := r.classifiers[name]
	if !ok {
		return "", apperrors.NewNotFoundError("classifier " + name)
	}
	return cmd, nil
}

// FeatureSetNames lists the set names, sorted
func (r *Registry) FeatureSetNames() []string { return sortedKeys(r.sets) }

// ClassifierNames lists the classifier names, sorted
func (r *Registry) ClassifierNames() []string { return sortedKeys(r.classifiers) }

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
