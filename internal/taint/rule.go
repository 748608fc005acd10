// Package taint implements taint analysis layered on top of pointer
// analysis: source calls synthesize taint objects, sink calls are checked
// against whatever taint objects reach their argument, and transfer rules
// describe library methods that move taint from an argument to a result or
// another argument (spec §4.8's source/sink/transfer configuration).
package taint

import "gopkg.in/yaml.v3"

// MethodKey names a method the way taint rules reference it: by declaring
// class name and subsignature, rather than an *ir.Method pointer, since
// rule files (internal/config) are loaded before any particular program's
// IR exists.
type MethodKey struct {
	Class  string `yaml:"class"`
	Subsig string `yaml:"method"`
}

// SourceRule marks every call to Method as producing a tainted return
// value.
type SourceRule struct {
	Method MethodKey `yaml:"method"`
}

// SinkRule marks argument index ArgIndex of every call to Method as
// security-sensitive: if a tainted value reaches it, that's a finding.
type SinkRule struct {
	Method   MethodKey `yaml:"method"`
	ArgIndex int       `yaml:"arg"`
}

// TransferRule describes a library method that moves taint from one
// argument to its result (ToResult) or to another argument (ToArg, by
// index) — e.g. StringBuilder.append keeps the receiver tainted, or
// String.trim keeps its result tainted. On an instance call, index 0 of
// FromArg and ToArg names the receiver and 1.. the explicit arguments.
type TransferRule struct {
	Method   MethodKey `yaml:"method"`
	FromArg  int       `yaml:"fromArg"`
	ToResult bool      `yaml:"toResult"`
	ToArg    int       `yaml:"toArg"`
	HasToArg bool      `yaml:"-"`
}

// UnmarshalYAML defaults ToArg to -1 (meaning "absent") before decoding,
// since YAML's zero value for an int field is indistinguishable from an
// explicit "toArg: 0" otherwise.
func (t *TransferRule) UnmarshalYAML(value *yaml.Node) error {
	type plain TransferRule
	aux := plain{ToArg: -1}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*t = TransferRule(aux)
	t.HasToArg = !t.ToResult && t.ToArg >= 0
	return nil
}

// Config is a full taint-rule set, as loaded by internal/config from YAML.
type Config struct {
	Sources   []SourceRule   `yaml:"sources"`
	Sinks     []SinkRule     `yaml:"sinks"`
	Transfers []TransferRule `yaml:"transfers"`
}
