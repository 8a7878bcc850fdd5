package normalizer

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ventuledger/ventu/pkg/models"
)

// descriptionSeparator joins an auxiliary memo column onto the description.
// It has to be stable: the description feeds the deterministic transaction id.
const descriptionSeparator = " | "

// Normalizer converts raw statement exports into canonical transactions via
// per-source adapters.
type Normalizer struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize parses raw statement text in best-effort mode: malformed rows are
// skipped with a debug log. Fails with a FormatError when the input as a
// whole cannot be read.
func (n *Normalizer) Normalize(data []byte, sourceID string) ([]models.Transaction, error) {
	txns, _, err := n.run(data, sourceID, false)
	return txns, err
}

// NormalizeStrict parses raw statement text in validating mode: malformed
// rows are reported individually as RowErrors next to the rows that did
// parse, so the caller can proceed with partial data. A row is never silently
// fabricated from malformed input.
func (n *Normalizer) NormalizeStrict(data []byte, sourceID string) ([]models.Transaction, []RowError, error) {
	return n.run(data, sourceID, true)
}

// Sources returns the known adapter identifiers.
func Sources() []string {
	ids := make([]string, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (n *Normalizer) run(data []byte, sourceID string, strict bool) ([]models.Transaction, []RowError, error) {
	spec, ok := sources[sourceID]
	if !ok {
		return nil, nil, fmt.Errorf("unknown source %q (known: %s)", sourceID, strings.Join(Sources(), ", "))
	}

	var records [][]string
	var err error
	if spec.xls {
		records, err = readXLS(data, sourceID)
	} else {
		records, err = readCSV(data, sourceID)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return nil, nil, &FormatError{Source: sourceID, Reason: "empty input"}
	}

	header := records[0]
	cols, err := spec.resolveColumns(sourceID, header)
	if err != nil {
		return nil, nil, err
	}

	var txns []models.Transaction
	var rowErrs []RowError
	for i, record := range records[1:] {
		txn, keep, err := spec.buildRow(sourceID, cols, record, i)
		if err != nil {
			if strict {
				rowErrs = append(rowErrs, *err)
			} else {
				n.logger.Debug("skipping malformed row", "source", sourceID, "row", err.Row, "reason", err.Reason)
			}
			continue
		}
		if !keep {
			continue
		}
		txns = append(txns, txn)
	}

	n.logger.Debug("normalized statement", "source", sourceID, "rows", len(records)-1, "transactions", len(txns), "row_errors", len(rowErrs))
	return txns, rowErrs, nil
}

func readCSV(data []byte, sourceID string) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // allow ragged rows, validated per field below
	records, err := r.ReadAll()
	if err != nil {
		return nil, &FormatError{Source: sourceID, Reason: fmt.Sprintf("failed to read csv: %v", err)}
	}
	return records, nil
}

// transactionID derives the deterministic id: a pure function of source,
// date, description and the row's position, so re-parsing identical input
// yields identical ids.
func transactionID(source, date, description string, row int) string {
	input := fmt.Sprintf("%s|%s|%s|%d", source, date, strings.ToLower(strings.TrimSpace(description)), row)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash)[:12]
}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1-2-2006",
}

// parseDate normalizes the supported input conventions (already-ISO and
// M/D/YYYY style) to ISO form. A trailing time component is dropped.
func parseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, ' '); idx > 0 {
		s = s[:idx]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// parseAmount reads a signed decimal, tolerating currency symbols, thousands
// separators and accounting-style parentheses for negatives.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not finite", s)
	}
	if negative {
		v = -v
	}
	return v, nil
}
