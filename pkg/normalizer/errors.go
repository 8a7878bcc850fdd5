package normalizer

import (
	"fmt"
	"strings"
)

// FormatError means the source text as a whole is unusable: empty input, an
// undecodable file, or required columns missing from the header. It is fatal
// to the import and carries found-vs-expected detail.
type FormatError struct {
	Source   string
	Reason   string
	Expected []string
	Found    []string
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Source, e.Reason)
	if len(e.Expected) > 0 {
		msg += fmt.Sprintf(" (expected one of: %s; found: %s)",
			strings.Join(e.Expected, ", "), strings.Join(e.Found, ", "))
	}
	return msg
}

// RowError means a single row failed field-level validation. In strict mode
// row errors are collected alongside the rows that did parse; in best-effort
// mode the row is just skipped.
type RowError struct {
	Source string
	Row    int // 1-based data row, not counting the header
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: %s", e.Source, e.Row, e.Reason)
}
