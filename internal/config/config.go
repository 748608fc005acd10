// Package config loads the analysis configuration files the CLI accepts:
// taint source/sink/transfer rule sets (internal/taint) and any future
// per-run analysis toggles.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"staticore/internal/taint"
)

// Rules wraps the on-disk shape of a rule file: a flat list of source,
// sink, and transfer entries under one "taint" key, which keeps the file
// format open to other sections (e.g. a future "pta" block for
// context-sensitivity depth) without a breaking change.
type Rules struct {
	Taint taint.Config `yaml:"taint"`
}

// LoadRules reads and parses a YAML rule file at path.
func LoadRules(path string) (taint.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return taint.Config{}, errors.Wrapf(err, "reading rule file %s", path)
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return taint.Config{}, errors.Wrapf(err, "parsing rule file %s", path)
	}
	return r.Taint, nil
}
