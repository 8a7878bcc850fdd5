package rules

import "fmt"

// ValidationError reports the first structural violation found in a rules
// document. RuleID is empty when the document itself is malformed.
type ValidationError struct {
	RuleID string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.RuleID == "" {
		return fmt.Sprintf("invalid rules document: %s", e.Reason)
	}
	return fmt.Sprintf("invalid rule %q: %s", e.RuleID, e.Reason)
}

// MatchError reports a condition clause that cannot be evaluated, e.g. an
// amount_between bound that is not a number. Unlike a failed regex this is a
// broken rules document, so it is raised to the caller instead of being
// treated as a non-match.
type MatchError struct {
	RuleID string
	Clause string
	Reason string
}

func (e *MatchError) Error() string {
	if e.RuleID == "" {
		return fmt.Sprintf("cannot evaluate %s: %s", e.Clause, e.Reason)
	}
	return fmt.Sprintf("rule %q: cannot evaluate %s: %s", e.RuleID, e.Clause, e.Reason)
}
