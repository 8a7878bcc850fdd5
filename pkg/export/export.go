// Package export writes categorized transactions as delimited text. The
// column set is fixed; quoting (embedded delimiters, quotes, newlines) is
// handled by the csv writer.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ventuledger/ventu/pkg/categorizer"
)

var header = []string{
	"Date", "Description", "Amount", "Category", "Venture", "Note",
	"OriginalTxnId", "SplitPercent", "OriginalAmount",
}

// FilterFunc decides whether a record is emitted. nil means emit everything.
type FilterFunc func(categorizer.CategorizedTransaction) bool

// Filters narrows an export by venture and calendar year. Year filtering is
// a prefix match on the ISO date, so "2025" keeps 2025-01-01 through
// 2025-12-31 and drops 2024-12-01.
type Filters struct {
	Venture string
	Year    string
}

func (f Filters) Func() FilterFunc {
	return func(ct categorizer.CategorizedTransaction) bool {
		if f.Venture != "" && ct.Venture != f.Venture {
			return false
		}
		if f.Year != "" && !strings.HasPrefix(ct.Date, f.Year) {
			return false
		}
		return true
	}
}

// Write emits the filtered records. The three split columns stay empty on
// non-split rows.
func Write(w io.Writer, categorized []categorizer.CategorizedTransaction, filter FilterFunc) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("error writing export header: %w", err)
	}

	for _, ct := range categorized {
		if filter != nil && !filter(ct) {
			continue
		}

		originalTxnID := ""
		splitPercent := ""
		originalAmount := ""
		if ct.Allocation != nil {
			originalTxnID = ct.OriginalTxnID
			splitPercent = strconv.FormatFloat(ct.Allocation.Percent, 'f', -1, 64)
			originalAmount = fmt.Sprintf("%.2f", ct.Allocation.OriginalAmount)
		}

		record := []string{
			ct.Date,
			ct.Description,
			fmt.Sprintf("%.2f", ct.Amount),
			ct.Category,
			ct.Venture,
			ct.Note,
			originalTxnID,
			splitPercent,
			originalAmount,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing export record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
