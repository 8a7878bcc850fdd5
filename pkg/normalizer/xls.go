package normalizer

import (
	"bytes"

	"github.com/extrame/xls"
)

const maxXLSRows = 10000

// readXLS loads the first worksheet of an XLS workbook into csv-shaped
// records. The header is the first row carrying at least two non-empty
// cells; anything above it (titles, account banners) is skipped.
func readXLS(data []byte, sourceID string) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, &FormatError{Source: sourceID, Reason: "failed to open xls workbook: " + err.Error()}
	}

	rows := workbook.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, &FormatError{Source: sourceID, Reason: "no data found in sheet"}
	}

	start := -1
	for i, row := range rows {
		if nonEmptyCells(row) >= 2 {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, &FormatError{Source: sourceID, Reason: "no header row found in sheet"}
	}
	return rows[start:], nil
}

func nonEmptyCells(row []string) int {
	n := 0
	for _, cell := range row {
		if cell != "" {
			n++
		}
	}
	return n
}
