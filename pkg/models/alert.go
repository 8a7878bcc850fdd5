package models

// AlertMissingReceipt is the only alert type emitted today.
const AlertMissingReceipt = "missing_receipt"

// Alert is a notice attached to a categorized transaction. Split fan-outs
// produce a single alert referencing the parent transaction, never one per leg.
type Alert struct {
	Type    string `json:"type"`
	TxnID   string `json:"txnId"`
	Message string `json:"message"`
	RuleID  string `json:"ruleId"`
}
