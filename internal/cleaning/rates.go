package cleaning

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/guttosm/vitipulse/internal/domain/models"
)

// Rates is a year-indexed USD→BRL conversion table: multiply a US$ value
// by the year's rate to get R$.
//
// The dataset only specifies that values are yearly, so the table holds
// one yearly average rate per year rather than daily quotes. A CSV file
// (RATES_FILE) can override or extend the built-in table.
type Rates map[int]float64

// For returns the conversion rate for a year.
func (r Rates) For(year int) (float64, bool) {
	v, ok := r[year]
	return v, ok
}

// builtinRates covers the Plano Real era. Years before 1994 are in legacy
// currencies and need an explicit RATES_FILE to be processed at all.
var builtinRates = Rates{
	1994: 0.64, 1995: 0.92, 1996: 1.01, 1997: 1.08, 1998: 1.16,
	1999: 1.81, 2000: 1.83, 2001: 2.35, 2002: 2.92, 2003: 3.08,
	2004: 2.93, 2005: 2.43, 2006: 2.18, 2007: 1.95, 2008: 1.83,
	2009: 2.00, 2010: 1.76, 2011: 1.67, 2012: 1.95, 2013: 2.16,
	2014: 2.35, 2015: 3.33, 2016: 3.49, 2017: 3.19, 2018: 3.65,
	2019: 3.95, 2020: 5.16, 2021: 5.40, 2022: 5.16, 2023: 5.00,
	2024: 5.39,
}

var ratesHeaders = []string{"Ano", "Cambio"}

// LoadRates builds the conversion table used for the whole run.
//
// With an empty path it returns a copy of the built-in table. Otherwise it
// parses a semicolon-separated "Ano;Cambio" CSV and lays it over the
// built-in table, so a file only needs the years it wants to change.
//
// Errors:
//   - file not readable → wraps models.ErrSourceUnavailable
//   - bad header, year, or rate → wraps models.ErrMalformedSource
func LoadRates(path string) (Rates, error) {
	out := make(Rates, len(builtinRates))
	for y, v := range builtinRates {
		out[y] = v
	}
	if path == "" {
		return out, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", models.ErrSourceUnavailable, path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", models.ErrMalformedSource, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", models.ErrMalformedSource, path)
	}

	header := rows[0]
	if len(header) != len(ratesHeaders) ||
		strings.TrimSpace(header[0]) != ratesHeaders[0] ||
		strings.TrimSpace(header[1]) != ratesHeaders[1] {
		return nil, fmt.Errorf("%w: %s: expected header %v", models.ErrMalformedSource, path, ratesHeaders)
	}

	for i, rec := range rows[1:] {
		if len(rec) != 2 {
			return nil, fmt.Errorf("%w: %s line %d: expected 2 columns", models.ErrMalformedSource, path, i+2)
		}
		year, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: bad year: %v", models.ErrMalformedSource, path, i+2, err)
		}
		rate, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(rec[1]), ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: bad rate: %v", models.ErrMalformedSource, path, i+2, err)
		}
		if rate <= 0 {
			return nil, fmt.Errorf("%w: %s line %d: rate must be positive", models.ErrMalformedSource, path, i+2)
		}
		out[year] = rate
	}

	return out, nil
}
