package rules

import (
	"fmt"
	"math"
)

// splitSumTolerance is how far a split's percents may drift from 100.
const splitSumTolerance = 0.01

// Validate checks the structural invariants of a rules document and fails
// fast on the first violation. It never evaluates conditions against a
// transaction.
func Validate(doc *Document) error {
	if doc == nil || doc.Rules == nil {
		return &ValidationError{Reason: "rules must be a list"}
	}
	seen := make(map[string]bool, len(doc.Rules))
	for i, rule := range doc.Rules {
		if rule.ID == "" {
			return &ValidationError{Reason: fmt.Sprintf("rule at index %d has no id", i)}
		}
		if seen[rule.ID] {
			return &ValidationError{RuleID: rule.ID, Reason: "duplicate rule id"}
		}
		seen[rule.ID] = true
		if rule.When == nil {
			return &ValidationError{RuleID: rule.ID, Reason: "missing when condition"}
		}
		if rule.Then == nil {
			return &ValidationError{RuleID: rule.ID, Reason: "missing then action"}
		}
		if err := validateSplit(rule.ID, rule.Then.Split); err != nil {
			return err
		}
	}
	return nil
}

func validateSplit(ruleID string, split []SplitAllocation) error {
	if len(split) == 0 {
		return nil
	}
	sum := 0.0
	for i, alloc := range split {
		if alloc.Venture == "" {
			return &ValidationError{RuleID: ruleID, Reason: fmt.Sprintf("split allocation %d has no venture", i)}
		}
		if math.IsNaN(alloc.Percent) || alloc.Percent <= 0 {
			return &ValidationError{RuleID: ruleID, Reason: fmt.Sprintf("split allocation %d percent must be a positive number, got %v", i, alloc.Percent)}
		}
		sum += alloc.Percent
	}
	if math.Abs(sum-100) > splitSumTolerance {
		return &ValidationError{RuleID: ruleID, Reason: fmt.Sprintf("split percents sum to %.2f, want 100", sum)}
	}
	return nil
}
