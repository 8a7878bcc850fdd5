package executors

import (
	"os"

	"github.com/ventuledger/ventu/pkg/report"
	"github.com/ventuledger/ventu/pkg/summary"
)

// Report runs the pipeline and renders the aggregate summary to stdout.
func (e *Executor) Report(inputPath, sourceID, rulesPath string) error {
	result, err := e.categorize(inputPath, sourceID, rulesPath)
	if err != nil {
		return err
	}

	s := summary.Summarize(result.Categorized)
	report.Render(os.Stdout, s, result.Alerts)
	return nil
}
