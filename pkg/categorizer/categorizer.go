package categorizer

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/ventuledger/ventu/pkg/models"
	"github.com/ventuledger/ventu/pkg/rules"
)

// Sentinels used when no rule matched or an action leaves a field blank.
const (
	UncategorizedCategory = "Uncategorized"
	UnassignedVenture     = "unassigned"
)

// Step tags how a categorization was derived.
type Step string

const (
	StepNoMatch         Step = "no_match"
	StepMatchedRule     Step = "matched_rule"
	StepSplitAllocation Step = "split_allocation"
)

// AuditEntry records which rule (and which allocation, for splits) produced a
// categorization. Entries are created once and never rewritten.
type AuditEntry struct {
	Step       Step                   `json:"step"`
	RuleID     string                 `json:"ruleId,omitempty"`
	When       *rules.Condition       `json:"when,omitempty"`
	Then       *rules.Action          `json:"then,omitempty"`
	Allocation *rules.SplitAllocation `json:"allocation,omitempty"`
}

// Allocation describes one leg of a split fan-out.
type Allocation struct {
	Percent        float64 `json:"percent"`
	OriginalAmount float64 `json:"originalAmount"`
	SplitIndex     int     `json:"splitIndex"`
	TotalSplits    int     `json:"totalSplits"`
}

// CategorizedTransaction is a normalized transaction plus the outcome of rule
// matching. OriginalTxnID and Allocation are set only on split-derived legs.
type CategorizedTransaction struct {
	models.Transaction

	Category        string       `json:"category"`
	Venture         string       `json:"venture"`
	RequiresReceipt bool         `json:"requiresReceipt"`
	Note            string       `json:"note,omitempty"`
	Audit           []AuditEntry `json:"audit"`
	OriginalTxnID   string       `json:"originalTxnId,omitempty"`
	Allocation      *Allocation  `json:"allocation,omitempty"`
}

// Result is the categorization output: one record per input transaction
// (more when splits fan out) plus the alerts raised along the way.
type Result struct {
	Categorized []CategorizedTransaction
	Alerts      []models.Alert
}

// Categorize runs every transaction through rule selection and applies the
// winning rule's action. Output preserves input order; split legs appear
// contiguously where their parent would have been. The document must already
// have passed rules.Validate.
func Categorize(logger *log.Logger, txns []models.Transaction, doc *rules.Document) (*Result, error) {
	result := &Result{
		Categorized: make([]CategorizedTransaction, 0, len(txns)),
	}

	for _, txn := range txns {
		rule, err := rules.Select(logger, txn, doc)
		if err != nil {
			return nil, err
		}

		if rule == nil {
			result.Categorized = append(result.Categorized, CategorizedTransaction{
				Transaction: txn,
				Category:    UncategorizedCategory,
				Venture:     UnassignedVenture,
				Audit:       []AuditEntry{{Step: StepNoMatch}},
			})
			continue
		}

		if len(rule.Then.Split) == 0 {
			result.Categorized = append(result.Categorized, applySimple(txn, rule))
		} else {
			result.Categorized = append(result.Categorized, applySplit(txn, rule)...)
		}

		if rule.Then.RequiresReceipt {
			result.Alerts = append(result.Alerts, receiptAlert(txn, rule))
		}
	}

	return result, nil
}

func applySimple(txn models.Transaction, rule *rules.Rule) CategorizedTransaction {
	act := rule.Then
	category := act.Category
	if category == "" {
		category = UncategorizedCategory
	}
	venture := act.Venture
	if venture == "" {
		venture = UnassignedVenture
	}
	return CategorizedTransaction{
		Transaction:     txn,
		Category:        category,
		Venture:         venture,
		RequiresReceipt: act.RequiresReceipt,
		Note:            act.Note,
		Audit: []AuditEntry{{
			Step:   StepMatchedRule,
			RuleID: rule.ID,
			When:   rule.When,
			Then:   rule.Then,
		}},
	}
}

// applySplit fans a transaction out into one leg per allocation, in document
// order. Each leg's amount is computed directly from its percent so the legs
// always sum to the parent amount.
func applySplit(txn models.Transaction, rule *rules.Rule) []CategorizedTransaction {
	act := rule.Then
	category := act.Category
	if category == "" {
		category = UncategorizedCategory
	}

	legs := make([]CategorizedTransaction, 0, len(act.Split))
	for i := range act.Split {
		alloc := act.Split[i]
		leg := txn
		leg.ID = txn.ID + ":split:" + strconv.Itoa(i)
		leg.Amount = txn.Amount * alloc.Percent / 100

		legs = append(legs, CategorizedTransaction{
			Transaction:     leg,
			Category:        category,
			Venture:         alloc.Venture,
			RequiresReceipt: act.RequiresReceipt,
			Note:            alloc.Note,
			OriginalTxnID:   txn.ID,
			Allocation: &Allocation{
				Percent:        alloc.Percent,
				OriginalAmount: txn.Amount,
				SplitIndex:     i,
				TotalSplits:    len(act.Split),
			},
			Audit: []AuditEntry{{
				Step:       StepSplitAllocation,
				RuleID:     rule.ID,
				When:       rule.When,
				Then:       rule.Then,
				Allocation: &act.Split[i],
			}},
		})
	}
	return legs
}

// receiptAlert builds the single missing_receipt alert for a matched
// transaction. Splits alert once for the parent, noting the fan-out count.
func receiptAlert(txn models.Transaction, rule *rules.Rule) models.Alert {
	msg := fmt.Sprintf("receipt required for %q (%s, %.2f)", txn.Description, txn.Date, txn.Amount)
	if n := len(rule.Then.Split); n > 0 {
		msg += fmt.Sprintf(", split across %d allocations", n)
	}
	return models.Alert{
		Type:    models.AlertMissingReceipt,
		TxnID:   txn.ID,
		Message: msg,
		RuleID:  rule.ID,
	}
}
