package rules

import (
	"errors"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/ventuledger/ventu/pkg/models"
)

// Select picks the rule that categorizes a transaction: rules are ordered by
// priority descending with document order breaking ties, and the first match
// wins. Returns nil when no rule matches.
//
// The sort must stay stable. Two equal-priority rules never swap relative
// order across runs, even when priorities are absent entirely.
func Select(logger *log.Logger, txn models.Transaction, doc *Document) (*Rule, error) {
	ordered := make([]*Rule, len(doc.Rules))
	for i := range doc.Rules {
		ordered[i] = &doc.Rules[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	for _, rule := range ordered {
		ok, err := Matches(logger, txn, rule.When)
		if err != nil {
			var me *MatchError
			if errors.As(err, &me) && me.RuleID == "" {
				me.RuleID = rule.ID
			}
			return nil, err
		}
		if ok {
			return rule, nil
		}
	}
	return nil, nil
}
