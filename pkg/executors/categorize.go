package executors

import (
	"fmt"
	"os"

	"github.com/ventuledger/ventu/pkg/categorizer"
	"github.com/ventuledger/ventu/pkg/export"
)

// Categorize runs the pipeline end to end and writes the categorized set to
// outPath (stdout when empty).
func (e *Executor) Categorize(inputPath, sourceID, rulesPath, outPath string) error {
	return e.exportFiltered(inputPath, sourceID, rulesPath, outPath, export.Filters{})
}

// Export runs the pipeline and writes the rows passing the venture/year
// filters.
func (e *Executor) Export(inputPath, sourceID, rulesPath, outPath string, filters export.Filters) error {
	return e.exportFiltered(inputPath, sourceID, rulesPath, outPath, filters)
}

func (e *Executor) exportFiltered(inputPath, sourceID, rulesPath, outPath string, filters export.Filters) error {
	result, err := e.categorize(inputPath, sourceID, rulesPath)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := export.Write(out, result.Categorized, filters.Func()); err != nil {
		return err
	}

	for _, alert := range result.Alerts {
		e.logger.Warn("missing receipt", "txn_id", alert.TxnID, "rule", alert.RuleID, "message", alert.Message)
	}
	if outPath != "" {
		e.logger.Info("wrote categorized export", "file", outPath, "transactions", len(result.Categorized), "alerts", len(result.Alerts))
	}
	return nil
}

func (e *Executor) categorize(inputPath, sourceID, rulesPath string) (*categorizer.Result, error) {
	doc, err := e.loadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	txns, err := e.loadTransactions(inputPath, sourceID)
	if err != nil {
		return nil, err
	}
	return categorizer.Categorize(e.logger, txns, doc)
}
