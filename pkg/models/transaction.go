package models

// Transaction is the canonical record every source adapter emits. Negative
// amounts are outflows, positive amounts are inflows.
type Transaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // ISO, YYYY-MM-DD
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Source      string  `json:"source"`
}
