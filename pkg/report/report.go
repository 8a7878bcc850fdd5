// Package report renders summaries and alerts as fixed-width terminal
// tables.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/ventuledger/ventu/pkg/models"
	"github.com/ventuledger/ventu/pkg/summary"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	outflowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inflowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	alertStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Render writes a human-readable report for a summary plus its alerts.
func Render(w io.Writer, s summary.Summary, alerts []models.Alert) {
	fmt.Fprintln(w, headerStyle.Render("Totals by venture"))
	renderTotals(w, s.ByVenture)

	fmt.Fprintln(w, headerStyle.Render("Totals by category"))
	renderTotals(w, s.ByCategory)

	fmt.Fprintln(w, headerStyle.Render("Totals by venture / category"))
	for _, venture := range sortedKeys(s.ByVentureCategory) {
		categories := s.ByVentureCategory[venture]
		for _, category := range sortedKeys(categories) {
			name := fmt.Sprintf("%s / %s", venture, category)
			fmt.Fprintf(w, "  %-36s %s\n", name, amount(categories[category]))
		}
	}
	fmt.Fprintln(w)

	if len(s.TopUncategorized) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Top uncategorized merchants"))
		for _, m := range s.TopUncategorized {
			fmt.Fprintf(w, "  %-36s %4dx %s\n", m.Description, m.Count, amount(m.Total))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d transaction(s), %d uncategorized\n\n", s.TotalTransactions, s.UncategorizedCount)

	if len(alerts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No pending receipts"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Pending receipts"))
	for _, a := range alerts {
		fmt.Fprintln(w, alertStyle.Render(fmt.Sprintf("  ! %s (rule %s)", a.Message, a.RuleID)))
	}
}

func renderTotals(w io.Writer, totals map[string]float64) {
	for _, key := range sortedKeys(totals) {
		fmt.Fprintf(w, "  %-36s %s\n", key, amount(totals[key]))
	}
	fmt.Fprintln(w)
}

// amount formats a signed value with two decimals, colored by direction.
func amount(v float64) string {
	text := fmt.Sprintf("%12.2f", v)
	if v < 0 {
		return outflowStyle.Render(text)
	}
	return inflowStyle.Render(text)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
