package categorizer

import (
	"io"
	"math"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ventuledger/ventu/pkg/models"
	"github.com/ventuledger/ventu/pkg/rules"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestCategorizeSimpleMatch(t *testing.T) {
	doc := &rules.Document{Rules: []rules.Rule{{
		ID:   "r1",
		When: &rules.Condition{Contains: []string{"chatgpt"}},
		Then: &rules.Action{Category: "Software", Venture: "v1"},
	}}}
	txns := []models.Transaction{
		{ID: "t1", Date: "2025-03-17", Description: "CHATGPT", Amount: -20, Source: "generic"},
	}

	result, err := Categorize(discardLogger(), txns, doc)
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}
	if len(result.Categorized) != 1 {
		t.Fatalf("expected 1 categorized transaction, got %d", len(result.Categorized))
	}

	ct := result.Categorized[0]
	if ct.Category != "Software" || ct.Venture != "v1" {
		t.Errorf("wrong assignment: category=%q venture=%q", ct.Category, ct.Venture)
	}
	if ct.Allocation != nil || ct.OriginalTxnID != "" {
		t.Error("non-split transaction must not carry allocation fields")
	}
	if len(ct.Audit) != 1 || ct.Audit[0].Step != StepMatchedRule || ct.Audit[0].RuleID != "r1" {
		t.Errorf("wrong audit: %+v", ct.Audit)
	}
	if ct.Audit[0].When == nil || ct.Audit[0].Then == nil {
		t.Error("audit must capture the when/then as matched")
	}
	if len(result.Alerts) != 0 {
		t.Errorf("no receipt required, got alerts: %+v", result.Alerts)
	}
}

func TestCategorizeNoMatch(t *testing.T) {
	doc := &rules.Document{Rules: []rules.Rule{}}
	txns := []models.Transaction{
		{ID: "t1", Date: "2025-01-01", Description: "MYSTERY SHOP", Amount: -9.99},
	}

	result, err := Categorize(discardLogger(), txns, doc)
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}

	ct := result.Categorized[0]
	if ct.Category != UncategorizedCategory || ct.Venture != UnassignedVenture {
		t.Errorf("expected sentinels, got category=%q venture=%q", ct.Category, ct.Venture)
	}
	if ct.RequiresReceipt {
		t.Error("no-match transaction must not require a receipt")
	}
	if len(ct.Audit) != 1 || ct.Audit[0].Step != StepNoMatch {
		t.Errorf("expected no_match audit entry, got %+v", ct.Audit)
	}
}

func TestCategorizeSplit(t *testing.T) {
	doc := &rules.Document{Rules: []rules.Rule{{
		ID:   "shared",
		When: &rules.Condition{AmountLT: floatPtr(0)},
		Then: &rules.Action{
			Category:        "Infrastructure",
			RequiresReceipt: true,
			Split: []rules.SplitAllocation{
				{Venture: "v1", Percent: 60, Note: "main"},
				{Venture: "v2", Percent: 40, Note: "side"},
			},
		},
	}}}
	txns := []models.Transaction{
		{ID: "t1", Date: "2025-02-01", Description: "AWS", Amount: -100, Source: "generic"},
	}

	result, err := Categorize(discardLogger(), txns, doc)
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}
	if len(result.Categorized) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(result.Categorized))
	}

	first, second := result.Categorized[0], result.Categorized[1]
	if first.Amount != -60 || second.Amount != -40 {
		t.Errorf("expected -60/-40, got %.2f/%.2f", first.Amount, second.Amount)
	}
	if first.ID != "t1:split:0" || second.ID != "t1:split:1" {
		t.Errorf("wrong leg ids: %s, %s", first.ID, second.ID)
	}
	if first.OriginalTxnID != "t1" || second.OriginalTxnID != "t1" {
		t.Error("legs must reference the parent id")
	}
	if first.Venture != "v1" || second.Venture != "v2" {
		t.Errorf("wrong ventures: %s, %s", first.Venture, second.Venture)
	}
	if first.Note != "main" || second.Note != "side" {
		t.Error("leg note must come from the allocation, not the action")
	}
	if first.Allocation == nil || second.Allocation == nil {
		t.Fatal("split legs must carry allocation metadata")
	}
	if first.Allocation.OriginalAmount != -100 || first.Allocation.SplitIndex != 0 || first.Allocation.TotalSplits != 2 {
		t.Errorf("wrong allocation: %+v", first.Allocation)
	}
	if second.Audit[0].Step != StepSplitAllocation || second.Audit[0].Allocation == nil {
		t.Errorf("wrong audit on leg: %+v", second.Audit)
	}

	// Exactly one alert, for the parent, noting the fan-out.
	if len(result.Alerts) != 1 {
		t.Fatalf("expected 1 alert for the split parent, got %d", len(result.Alerts))
	}
	alert := result.Alerts[0]
	if alert.Type != models.AlertMissingReceipt || alert.TxnID != "t1" || alert.RuleID != "shared" {
		t.Errorf("wrong alert: %+v", alert)
	}
}

func TestSplitLegsSumToParent(t *testing.T) {
	doc := &rules.Document{Rules: []rules.Rule{{
		ID:   "thirds",
		When: &rules.Condition{},
		Then: &rules.Action{Split: []rules.SplitAllocation{
			{Venture: "a", Percent: 33.33},
			{Venture: "b", Percent: 33.33},
			{Venture: "c", Percent: 33.34},
		}},
	}}}
	txns := []models.Transaction{{ID: "t1", Description: "x", Amount: -10}}

	result, err := Categorize(discardLogger(), txns, doc)
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}

	sum := 0.0
	for _, leg := range result.Categorized {
		sum += leg.Amount
	}
	if math.Abs(sum-(-10)) > 1e-9 {
		t.Errorf("legs sum to %v, want parent amount -10", sum)
	}
}

func TestCategorizePreservesOrderWithSplits(t *testing.T) {
	doc := &rules.Document{Rules: []rules.Rule{{
		ID:   "split-aws",
		When: &rules.Condition{Contains: []string{"aws"}},
		Then: &rules.Action{Split: []rules.SplitAllocation{
			{Venture: "v1", Percent: 50},
			{Venture: "v2", Percent: 50},
		}},
	}}}
	txns := []models.Transaction{
		{ID: "a", Description: "COFFEE", Amount: -1},
		{ID: "b", Description: "AWS BILL", Amount: -10},
		{ID: "c", Description: "LUNCH", Amount: -2},
	}

	result, err := Categorize(discardLogger(), txns, doc)
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}

	gotIDs := make([]string, 0, len(result.Categorized))
	for _, ct := range result.Categorized {
		gotIDs = append(gotIDs, ct.ID)
	}
	wantIDs := []string{"a", "b:split:0", "b:split:1", "c"}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("order mismatch: got %v, want %v", gotIDs, wantIDs)
	}
}

func TestCategorizeSimpleReceiptAlert(t *testing.T) {
	doc := &rules.Document{Rules: []rules.Rule{{
		ID:   "travel",
		When: &rules.Condition{Contains: []string{"airline"}},
		Then: &rules.Action{Category: "Travel", Venture: "v1", RequiresReceipt: true},
	}}}
	txns := []models.Transaction{
		{ID: "t1", Date: "2025-06-10", Description: "AIRLINE TICKET", Amount: -500},
	}

	result, err := Categorize(discardLogger(), txns, doc)
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}
	if !result.Categorized[0].RequiresReceipt {
		t.Error("RequiresReceipt not carried onto the transaction")
	}
	if len(result.Alerts) != 1 || result.Alerts[0].TxnID != "t1" {
		t.Errorf("expected one alert for t1, got %+v", result.Alerts)
	}
}

func TestCategorizeIdempotent(t *testing.T) {
	doc := &rules.Document{Rules: []rules.Rule{
		{ID: "r1", Priority: 5, When: &rules.Condition{Contains: []string{"aws"}}, Then: &rules.Action{
			RequiresReceipt: true,
			Split: []rules.SplitAllocation{
				{Venture: "v1", Percent: 60},
				{Venture: "v2", Percent: 40},
			},
		}},
		{ID: "r2", When: &rules.Condition{AmountLT: floatPtr(0)}, Then: &rules.Action{Category: "Expense", Venture: "v1"}},
	}}
	txns := []models.Transaction{
		{ID: "a", Date: "2025-01-01", Description: "AWS", Amount: -100},
		{ID: "b", Date: "2025-01-02", Description: "LUNCH", Amount: -12},
		{ID: "c", Date: "2025-01-03", Description: "REFUND", Amount: 30},
	}

	first, err := Categorize(discardLogger(), txns, doc)
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}
	second, err := Categorize(discardLogger(), txns, doc)
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}

	if !reflect.DeepEqual(first.Categorized, second.Categorized) {
		t.Error("categorized output differs between identical runs")
	}
	if !reflect.DeepEqual(first.Alerts, second.Alerts) {
		t.Error("alerts differ between identical runs")
	}
}

func floatPtr(v float64) *float64 { return &v }
