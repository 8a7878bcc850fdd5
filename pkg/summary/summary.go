// Package summary contains the pure reducers over categorized output. A
// Summary is always recomputable from the categorized set and is never a
// source of truth.
package summary

import (
	"sort"

	"github.com/ventuledger/ventu/pkg/categorizer"
)

const topUncategorizedCap = 10

// MerchantCount accumulates occurrences of one uncategorized description.
type MerchantCount struct {
	Description string  `json:"merchant"`
	Count       int     `json:"count"`
	Total       float64 `json:"total"`
}

// Summary holds signed totals keyed by venture/category plus uncategorized
// statistics. Split legs count as their own transactions.
type Summary struct {
	ByVenture          map[string]float64            `json:"byVenture"`
	ByCategory         map[string]float64            `json:"byCategory"`
	ByVentureCategory  map[string]map[string]float64 `json:"byVentureCategory"`
	UncategorizedCount int                           `json:"uncategorizedCount"`
	TopUncategorized   []MerchantCount               `json:"topUncategorized"`
	TotalTransactions  int                           `json:"totalTransactions"`
}

// Uncategorized is the alert-style view over transactions no rule matched.
type Uncategorized struct {
	Count        int                                  `json:"uncategorizedCount"`
	Transactions []categorizer.CategorizedTransaction `json:"uncategorized"`
}

// Summarize reduces a categorized set into totals. Absent keys accumulate
// from zero; summation is commutative so input order does not matter, except
// for TopUncategorized ties which keep first-seen order.
func Summarize(categorized []categorizer.CategorizedTransaction) Summary {
	s := Summary{
		ByVenture:         make(map[string]float64),
		ByCategory:        make(map[string]float64),
		ByVentureCategory: make(map[string]map[string]float64),
		TotalTransactions: len(categorized),
	}

	for _, ct := range categorized {
		s.ByVenture[ct.Venture] += ct.Amount
		s.ByCategory[ct.Category] += ct.Amount
		if s.ByVentureCategory[ct.Venture] == nil {
			s.ByVentureCategory[ct.Venture] = make(map[string]float64)
		}
		s.ByVentureCategory[ct.Venture][ct.Category] += ct.Amount

		if ct.Category == categorizer.UncategorizedCategory {
			s.UncategorizedCount++
		}
	}

	s.TopUncategorized = topUncategorized(categorized)
	return s
}

// UncategorizedReport collects the transactions that fell through every rule.
func UncategorizedReport(categorized []categorizer.CategorizedTransaction) Uncategorized {
	var u Uncategorized
	for _, ct := range categorized {
		if ct.Category == categorizer.UncategorizedCategory {
			u.Count++
			u.Transactions = append(u.Transactions, ct)
		}
	}
	return u
}

// topUncategorized groups strictly by description string, no fuzzy merchant
// matching, and returns at most the top 10 by count. Ties keep the order the
// description was first encountered in.
func topUncategorized(categorized []categorizer.CategorizedTransaction) []MerchantCount {
	index := make(map[string]int)
	var merchants []MerchantCount

	for _, ct := range categorized {
		if ct.Category != categorizer.UncategorizedCategory {
			continue
		}
		i, ok := index[ct.Description]
		if !ok {
			i = len(merchants)
			index[ct.Description] = i
			merchants = append(merchants, MerchantCount{Description: ct.Description})
		}
		merchants[i].Count++
		merchants[i].Total += ct.Amount
	}

	sort.SliceStable(merchants, func(i, j int) bool {
		return merchants[i].Count > merchants[j].Count
	})
	if len(merchants) > topUncategorizedCap {
		merchants = merchants[:topUncategorizedCap]
	}
	return merchants
}
