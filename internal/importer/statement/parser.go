package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/npereira/centavo/internal/encoding"
	"github.com/npereira/centavo/internal/ledger"
)

// Parser reads generic statement CSV exports into ledger entry params.
// It finds the header row by matching the required column names, so
// preamble lines above the header (account metadata, export timestamps)
// are skipped.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

const (
	colDate        = "date"
	colSection     = "section"
	colAmount      = "amount"
	colPaymentMode = "payment_mode"
	colNote        = "note"
)

var requiredCols = []string{colDate, colSection, colAmount}

var dateLayouts = []string{
	time.DateOnly,
	"02-01-2006",
	"02/01/2006",
}

func (p *Parser) Parse(r io.Reader) ([]ledger.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx := findHeader(rows)
	if cols == nil {
		return nil, fmt.Errorf("no header row found: expected columns %s", strings.Join(requiredCols, ", "))
	}

	return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps lowercased column names to their position.
type colIndex map[string]int

func findHeader(rows [][]string) (colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		if hasRequired(cols) {
			return cols, rowIdx
		}
	}

	return nil, 0
}

func hasRequired(cols colIndex) bool {
	for _, name := range requiredCols {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func parseRows(cols colIndex, rows [][]string, headerRowNum int) ([]ledger.CreateParams, error) {
	var params []ledger.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(cellValue(row, cols[colDate]))
		if !ok {
			// Footer and summary rows carry no date.
			continue
		}

		section := cellValue(row, cols[colSection])
		if section == "" {
			return nil, fmt.Errorf("row %d: missing section", rowNum)
		}

		cents, err := parseAmount(cellValue(row, cols[colAmount]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if cents == 0 {
			continue
		}

		p := ledger.CreateParams{
			Section: section,
			Amount:  cents,
			Date:    date,
		}

		if idx, ok := cols[colPaymentMode]; ok {
			p.PaymentMode = cellValue(row, idx)
		}

		if idx, ok := cols[colNote]; ok {
			if note := cellValue(row, idx); note != "" {
				p.Note = &note
			}
		}

		params = append(params, p)
	}

	return params, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount converts a decimal amount string to cents. Both "12.50" and
// European "12,50" (with optional thousands separators) are accepted.
func parseAmount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}

	negative := false

	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	// Treat the last separator as the decimal point; any earlier ones are
	// thousands separators.
	lastDot := strings.LastIndexAny(s, ".,")

	intPart := s
	fracPart := ""

	if lastDot >= 0 && len(s)-lastDot-1 <= 2 {
		intPart = s[:lastDot]
		fracPart = s[lastDot+1:]
	}

	intPart = strings.Map(func(r rune) rune {
		if r == '.' || r == ',' || r == ' ' {
			return -1
		}
		return r
	}, intPart)

	var units int64

	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}

		units = units*10 + int64(r-'0')
	}

	cents := units * 100

	switch len(fracPart) {
	case 0:
	case 1:
		if fracPart[0] < '0' || fracPart[0] > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}

		cents += int64(fracPart[0]-'0') * 10
	case 2:
		for _, r := range fracPart {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("invalid amount %q", s)
			}
		}

		cents += int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
	default:
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	if negative {
		cents = -cents
	}

	return cents, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
