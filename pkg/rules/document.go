package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the full rules file: an optional list of known ventures plus an
// ordered list of rules. Rule order matters, it is the tie-break for equal
// priorities.
type Document struct {
	Ventures []string `yaml:"ventures,omitempty"`
	Rules    []Rule   `yaml:"rules"`
}

// Rule pairs a condition with the action applied when it matches. Higher
// priority rules are evaluated first; the default priority is 0.
type Rule struct {
	ID       string     `yaml:"id"`
	Priority int        `yaml:"priority,omitempty"`
	When     *Condition `yaml:"when"`
	Then     *Action    `yaml:"then"`
}

// Condition is a conjunction of optional clauses. Only the clauses that are
// present are evaluated; an empty condition matches every transaction.
// Contains is a legacy alias of AnyContains and, when both are set, both
// clauses must pass independently.
type Condition struct {
	AnyContains   []string     `yaml:"any_contains,omitempty"`
	Contains      []string     `yaml:"contains,omitempty"`
	AllContains   []string     `yaml:"all_contains,omitempty"`
	Regex         *RegexClause `yaml:"regex,omitempty"`
	AmountGT      *float64     `yaml:"amount_gt,omitempty"`
	AmountLT      *float64     `yaml:"amount_lt,omitempty"`
	AmountBetween *Range       `yaml:"amount_between,omitempty"`
}

// RegexClause holds a pattern and optional flags ("i", "m", "s"). Matching is
// case-insensitive unless flags say otherwise.
type RegexClause struct {
	Pattern string `yaml:"pattern"`
	Flags   string `yaml:"flags,omitempty"`
}

// UnmarshalYAML accepts either a bare pattern string or a {pattern, flags}
// mapping.
func (r *RegexClause) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Pattern = node.Value
		r.Flags = ""
		return nil
	}
	type plain RegexClause
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = RegexClause(p)
	return nil
}

// Range is an inclusive amount interval. Bounds are decoded loosely so that a
// non-numeric bound can be reported as a MatchError instead of being coerced.
type Range struct {
	Min any `yaml:"min"`
	Max any `yaml:"max"`
}

// Action is what a matched rule does: either a simple assignment or a
// percentage split across ventures. The two forms are distinguished by the
// presence of Split.
type Action struct {
	Category        string            `yaml:"category,omitempty"`
	Venture         string            `yaml:"venture,omitempty"`
	RequiresReceipt bool              `yaml:"requiresReceipt,omitempty"`
	Note            string            `yaml:"note,omitempty"`
	Split           []SplitAllocation `yaml:"split,omitempty"`
}

// SplitAllocation assigns a percentage of the parent amount to one venture.
type SplitAllocation struct {
	Venture string  `yaml:"venture"`
	Percent float64 `yaml:"percent"`
	Note    string  `yaml:"note,omitempty"`
}

// Parse decodes a YAML rules document. Structural invariants are checked by
// Validate, not here.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml: %w", err)
	}
	return &doc, nil
}

// Load reads and parses a rules document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(data)
}
