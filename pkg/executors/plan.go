package executors

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ventuledger/ventu/pkg/categorizer"
)

// Import normalizes the given statements and prints a preview, without
// categorizing anything.
func (e *Executor) Import(inputPath, sourceID string) error {
	txns, err := e.loadTransactions(inputPath, sourceID)
	if err != nil {
		return err
	}

	for _, t := range txns {
		fmt.Printf("%s | %-40s | %10.2f | %s\n", t.Date, t.Description, t.Amount, t.ID)
	}
	fmt.Printf("\nImported %d transaction(s)\n", len(txns))
	return nil
}

// Plan runs the full pipeline without writing anything: a dry-run preview of
// what categorization would produce.
func (e *Executor) Plan(inputPath, sourceID, rulesPath string) error {
	doc, err := e.loadRules(rulesPath)
	if err != nil {
		return err
	}
	txns, err := e.loadTransactions(inputPath, sourceID)
	if err != nil {
		return err
	}

	result, err := categorizer.Categorize(e.logger, txns, doc)
	if err != nil {
		return err
	}

	matchedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	unmatchedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow

	if len(doc.Ventures) > 0 {
		fmt.Printf("Ventures: %v\n\n", doc.Ventures)
	}

	matched := 0
	for _, ct := range result.Categorized {
		line := fmt.Sprintf("%s | %-40s | %-18s | %-14s | %10.2f", ct.Date, ct.Description, ct.Category, ct.Venture, ct.Amount)
		if ct.Category == categorizer.UncategorizedCategory {
			fmt.Println(unmatchedStyle.Render("+ " + line))
			continue
		}
		matched++
		fmt.Println(matchedStyle.Render("= " + line))
	}

	fmt.Printf("\nPlan: %d categorized, %d uncategorized, %d alert(s)\n",
		matched, len(result.Categorized)-matched, len(result.Alerts))
	return nil
}
