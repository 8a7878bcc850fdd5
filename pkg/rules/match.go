package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ventuledger/ventu/pkg/models"
)

// Matches evaluates a condition against a transaction. Every clause present
// on the condition must pass. An empty or nil condition matches everything.
//
// A regex that fails to compile is logged and treated as a non-match so one
// bad pattern cannot abort a whole run. Non-numeric amount_between bounds are
// a MatchError instead, since they indicate a broken rules document.
func Matches(logger *log.Logger, txn models.Transaction, cond *Condition) (bool, error) {
	if cond == nil {
		return true, nil
	}
	desc := strings.ToLower(txn.Description)

	// any_contains and its legacy alias are evaluated independently, so a
	// rule carrying both must satisfy both.
	if len(cond.AnyContains) > 0 && !containsAny(desc, cond.AnyContains) {
		return false, nil
	}
	if len(cond.Contains) > 0 && !containsAny(desc, cond.Contains) {
		return false, nil
	}
	if len(cond.AllContains) > 0 && !containsAll(desc, cond.AllContains) {
		return false, nil
	}
	if cond.Regex != nil && !matchRegex(logger, desc, cond.Regex) {
		return false, nil
	}
	if cond.AmountGT != nil && !(txn.Amount > *cond.AmountGT) {
		return false, nil
	}
	if cond.AmountLT != nil && !(txn.Amount < *cond.AmountLT) {
		return false, nil
	}
	if cond.AmountBetween != nil {
		ok, err := matchBetween(txn.Amount, cond.AmountBetween)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func containsAny(desc string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(desc, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func containsAll(desc string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(desc, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

func matchRegex(logger *log.Logger, desc string, clause *RegexClause) bool {
	flags := clause.Flags
	if flags == "" {
		flags = "i"
	}
	pattern := clause.Pattern
	var prefix string
	if strings.ContainsRune(flags, 'i') {
		prefix += "i"
	}
	if strings.ContainsRune(flags, 'm') {
		prefix += "m"
	}
	if strings.ContainsRune(flags, 's') {
		prefix += "s"
	}
	if prefix != "" {
		pattern = "(?" + prefix + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		logger.Warn("invalid regex in rule condition, treating as non-match", "pattern", clause.Pattern, "error", err)
		return false
	}
	return re.MatchString(desc)
}

func matchBetween(amount float64, r *Range) (bool, error) {
	min, ok := asNumber(r.Min)
	if !ok {
		return false, &MatchError{Clause: "amount_between", Reason: fmt.Sprintf("min bound %v is not a number", r.Min)}
	}
	max, ok := asNumber(r.Max)
	if !ok {
		return false, &MatchError{Clause: "amount_between", Reason: fmt.Sprintf("max bound %v is not a number", r.Max)}
	}
	return amount >= min && amount <= max, nil
}

// asNumber accepts the numeric types yaml.v3 produces for untyped scalars.
// Strings are deliberately not coerced.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
