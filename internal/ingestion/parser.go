package ingestion

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/guttosm/vitipulse/internal/domain/models"
)

// expectedHeaders enforces strict column ordering for vitipulse CSV extracts.
// If the header doesn't match EXACTLY (order + count), loading must fail.
var expectedHeaders = []string{
	"Ano",
	"Pais",
	"Continente",
	"Categoria",
	"Quantidade",
	"Unidade",
	"Valor",
	"Moeda",
}

// LoadCSV opens, validates, and parses one semicolon-separated CSV extract
// into raw Records.
//
// It fails on:
//   - file not readable (wraps models.ErrSourceUnavailable)
//   - header not matching expected order/length (wraps models.ErrMalformedSource)
//   - a cell that violates the Record schema: bad year, unknown unit or
//     currency, unparsable or negative measure (wraps models.ErrMalformedSource)
//
// It tolerates:
//   - empty or "-" measure cells (they load as nil, to be judged by the cleaner)
//   - an empty Continente cell (the cleaner fills it from the lookup table)
func LoadCSV(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", models.ErrSourceUnavailable, path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // allow variable but we'll check explicitly

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", models.ErrMalformedSource, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", models.ErrMalformedSource, path)
	}

	// Validate headers strictly.
	header := rows[0]
	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("%w: invalid header length: expected %d, got %d",
			models.ErrMalformedSource, len(expectedHeaders), len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expectedHeaders[i] {
			return nil, fmt.Errorf("%w: invalid header at col %d: expected %q, got %q",
				models.ErrMalformedSource, i+1, expectedHeaders[i], h)
		}
	}

	out := make([]models.Record, 0, len(rows)-1)
	for i, rec := range rows[1:] {
		lineNumber := i + 2 // 1-based, after header

		// Enforce structure: exactly 8 columns. If not, fail the entire load.
		if len(rec) != len(expectedHeaders) {
			return nil, fmt.Errorf("%w: invalid column count on line %d: expected %d got %d",
				models.ErrMalformedSource, lineNumber, len(expectedHeaders), len(rec))
		}

		record, err := recordFromCSV(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", models.ErrMalformedSource, lineNumber, err)
		}
		out = append(out, record)
	}

	return out, nil
}

// recordFromCSV converts a single CSV record (already validated length==8)
// into a models.Record. It is STRICT about the schema but TOLERATES empty
// measure cells, mapping them to nil.
//
// Column order:
//
//	0 Ano        → Year (integer)
//	1 Pais       → Country (string, trimmed, must be non-empty)
//	2 Continente → Continent (string, may be empty)
//	3 Categoria  → Category (enum)
//	4 Quantidade → Quantity (decimal, comma→dot, empty/"-"→nil, must be ≥0)
//	5 Unidade    → Unit (enum kg|liter)
//	6 Valor      → Value (decimal, comma→dot, empty/"-"→nil, must be ≥0)
//	7 Moeda      → Currency (enum USD|BRL)
func recordFromCSV(rec []string) (models.Record, error) {
	var r models.Record

	year, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return r, fmt.Errorf("invalid Ano: %v", err)
	}
	r.Year = year

	r.Country = strings.TrimSpace(rec[1])
	if r.Country == "" {
		return r, fmt.Errorf("empty Pais")
	}

	r.Continent = strings.TrimSpace(rec[2])

	cat, ok := models.ParseCategory(strings.ToLower(strings.TrimSpace(rec[3])))
	if !ok {
		return r, fmt.Errorf("invalid Categoria: %q", rec[3])
	}
	r.Category = cat

	r.Quantity, err = parseMeasure(rec[4])
	if err != nil {
		return r, fmt.Errorf("invalid Quantidade: %v", err)
	}

	unit, ok := models.ParseUnit(strings.TrimSpace(rec[5]))
	if !ok {
		return r, fmt.Errorf("invalid Unidade: %q", rec[5])
	}
	r.Unit = unit

	r.Value, err = parseMeasure(rec[6])
	if err != nil {
		return r, fmt.Errorf("invalid Valor: %v", err)
	}

	cur, ok := models.ParseCurrency(strings.TrimSpace(rec[7]))
	if !ok {
		return r, fmt.Errorf("invalid Moeda: %q", rec[7])
	}
	r.Currency = cur

	return r, nil
}

// parseMeasure parses a quantity/value cell. Empty and "-" mean "not
// reported" and load as nil; anything else must be a non-negative decimal,
// comma accepted as decimal separator.
func parseMeasure(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, fmt.Errorf("negative measure %v", v)
	}
	return &v, nil
}
