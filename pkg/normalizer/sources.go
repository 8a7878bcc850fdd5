package normalizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/ventuledger/ventu/pkg/models"
)

type sourceKind int

const (
	// kindGeneric takes the amount column as-is.
	kindGeneric sourceKind = iota
	// kindCard signs amounts from the row's transaction type: sales are
	// forced negative, returns and payments positive, whatever the raw sign.
	kindCard
	// kindBank computes amount = credit - debit and drops zero-amount and
	// pending rows.
	kindBank
)

// sourceSpec describes one adapter: which kind of amount handling it uses and
// the prioritized header aliases for each logical field.
type sourceSpec struct {
	kind   sourceKind
	xls    bool
	date   []string
	desc   []string
	amount []string
	memo   []string
	typ    []string
	debit  []string
	credit []string
	status []string
}

var sources = map[string]sourceSpec{
	"generic": {
		kind:   kindGeneric,
		date:   []string{"date", "transaction date", "posted date"},
		desc:   []string{"description", "payee", "merchant", "details"},
		amount: []string{"amount", "value"},
		memo:   []string{"memo", "notes", "note"},
	},
	"card": {
		kind:   kindCard,
		date:   []string{"transaction date", "trans date", "date", "post date", "posted date"},
		desc:   []string{"description", "merchant name", "merchant"},
		amount: []string{"amount"},
		memo:   []string{"memo"},
		typ:    []string{"type", "transaction type"},
	},
	"bank": {
		kind:   kindBank,
		date:   []string{"date", "posting date", "posted date"},
		desc:   []string{"description", "details", "payee"},
		memo:   []string{"memo"},
		debit:  []string{"debit", "withdrawal", "withdrawals"},
		credit: []string{"credit", "deposit", "deposits"},
		status: []string{"status"},
	},
	"xls-generic": {
		kind:   kindGeneric,
		xls:    true,
		date:   []string{"date", "transaction date", "posted date"},
		desc:   []string{"description", "payee", "merchant", "details"},
		amount: []string{"amount", "value"},
		memo:   []string{"memo", "notes", "note"},
	},
}

// columns holds resolved header indices, -1 when a field is absent.
type columns struct {
	date   int
	desc   int
	amount int
	memo   int
	typ    int
	debit  int
	credit int
	status int
}

// resolveColumns locates each logical field in the header row by its alias
// list, case-insensitively and tolerant of extra columns.
func (s sourceSpec) resolveColumns(sourceID string, header []string) (columns, error) {
	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, ok := headerMap[name]; !ok {
			headerMap[name] = i
		}
	}
	find := func(aliases []string) int {
		for _, alias := range aliases {
			if i, ok := headerMap[alias]; ok {
				return i
			}
		}
		return -1
	}
	missing := func(field string, aliases []string) error {
		return &FormatError{
			Source:   sourceID,
			Reason:   fmt.Sprintf("required column %q not found", field),
			Expected: aliases,
			Found:    header,
		}
	}

	cols := columns{
		date:   find(s.date),
		desc:   find(s.desc),
		amount: find(s.amount),
		memo:   find(s.memo),
		typ:    find(s.typ),
		debit:  find(s.debit),
		credit: find(s.credit),
		status: find(s.status),
	}
	if cols.date < 0 {
		return cols, missing("date", s.date)
	}
	if cols.desc < 0 {
		return cols, missing("description", s.desc)
	}
	switch s.kind {
	case kindBank:
		if cols.debit < 0 {
			return cols, missing("debit", s.debit)
		}
		if cols.credit < 0 {
			return cols, missing("credit", s.credit)
		}
	default:
		if cols.amount < 0 {
			return cols, missing("amount", s.amount)
		}
		if s.kind == kindCard && cols.typ < 0 {
			return cols, missing("type", s.typ)
		}
	}
	return cols, nil
}

// buildRow converts one data row. keep is false when the adapter drops the
// row on purpose (zero-amount or pending bank rows); a nil transaction with a
// RowError means the row is malformed. rowIndex is the 0-based position of
// the data row and feeds the deterministic id.
func (s sourceSpec) buildRow(sourceID string, cols columns, record []string, rowIndex int) (models.Transaction, bool, *RowError) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	fail := func(format string, args ...any) (models.Transaction, bool, *RowError) {
		return models.Transaction{}, false, &RowError{Source: sourceID, Row: rowIndex + 1, Reason: fmt.Sprintf(format, args...)}
	}

	date, ok := parseDate(get(cols.date))
	if !ok {
		return fail("unparsable date %q", get(cols.date))
	}

	desc := get(cols.desc)
	if desc == "" {
		return fail("empty description")
	}
	if memo := get(cols.memo); memo != "" {
		desc = desc + descriptionSeparator + memo
	}

	var amount float64
	switch s.kind {
	case kindBank:
		if strings.EqualFold(get(cols.status), "pending") {
			return models.Transaction{}, false, nil
		}
		debit, err := parseOptionalAmount(get(cols.debit))
		if err != nil {
			return fail("invalid debit: %v", err)
		}
		credit, err := parseOptionalAmount(get(cols.credit))
		if err != nil {
			return fail("invalid credit: %v", err)
		}
		amount = credit - debit
		if amount == 0 {
			return models.Transaction{}, false, nil
		}
	default:
		v, err := parseAmount(get(cols.amount))
		if err != nil {
			return fail("invalid amount: %v", err)
		}
		amount = v
		if s.kind == kindCard {
			amount = signFromType(get(cols.typ), v)
		}
	}

	txn := models.Transaction{
		ID:          transactionID(sourceID, date, desc, rowIndex),
		Date:        date,
		Description: desc,
		Amount:      amount,
		Source:      sourceID,
	}
	return txn, true, nil
}

// signFromType applies the card statement convention: the type column, not
// the raw sign, decides the direction.
func signFromType(typ string, amount float64) float64 {
	switch strings.ToLower(typ) {
	case "sale", "fee":
		return -math.Abs(amount)
	case "return", "payment", "refund":
		return math.Abs(amount)
	default:
		return amount
	}
}

func parseOptionalAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return parseAmount(s)
}
