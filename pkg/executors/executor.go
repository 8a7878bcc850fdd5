// Package executors is the caller-facing command surface: import, plan,
// categorize, export, report. It owns all file I/O so the core packages stay
// pure.
package executors

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/ventuledger/ventu/pkg/config"
	"github.com/ventuledger/ventu/pkg/models"
	"github.com/ventuledger/ventu/pkg/normalizer"
	"github.com/ventuledger/ventu/pkg/rules"
)

type Executor struct {
	logger     *log.Logger
	config     *config.Config
	normalizer *normalizer.Normalizer
}

func New(logger *log.Logger, config *config.Config) *Executor {
	return &Executor{
		logger:     logger,
		config:     config,
		normalizer: normalizer.New(logger),
	}
}

// loadTransactions normalizes every file matching inputPath (a literal path
// or a glob). In strict mode row errors are surfaced as warnings and the run
// continues with the rows that did parse.
func (e *Executor) loadTransactions(inputPath, sourceID string) ([]models.Transaction, error) {
	matches, err := filepath.Glob(inputPath)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files found matching %s", inputPath)
	}

	var all []models.Transaction
	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", match, err)
		}

		var txns []models.Transaction
		if e.config.Strict {
			var rowErrs []normalizer.RowError
			txns, rowErrs, err = e.normalizer.NormalizeStrict(data, sourceID)
			for _, rowErr := range rowErrs {
				e.logger.Warn("row failed validation", "file", match, "error", rowErr.Error())
			}
		} else {
			txns, err = e.normalizer.Normalize(data, sourceID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to normalize %s: %w", match, err)
		}

		e.logger.Info("normalized statement", "file", match, "source", sourceID, "transactions", len(txns))
		all = append(all, txns...)
	}

	// Date order for display; ids are derived before this and unaffected.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date < all[j].Date
	})
	return all, nil
}

// loadRules reads and validates a rules document. Categorization must never
// run against a document that failed validation.
func (e *Executor) loadRules(rulesPath string) (*rules.Document, error) {
	if rulesPath == "" {
		rulesPath = e.config.RulesPath
	}
	if rulesPath == "" {
		return nil, fmt.Errorf("no rules file configured")
	}
	doc, err := rules.Load(rulesPath)
	if err != nil {
		return nil, err
	}
	if err := rules.Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
