package ingestion

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/guttosm/vitipulse/internal/domain/models"
)

// VitiBrasil marks its data tables with this class pair; everything else
// on the page (navigation, layout tables) is ignored.
const dataTableSelector = "table.tb_base.tb_dados"

// LoadHTML extracts raw Records from a saved VitiBrasil page.
//
// The pages come in two shapes:
//   - trade tables (import/export): Países | Quantidade (Kg) | Valor (US$)
//   - volume tables (production/commercialization): Produto | Quantidade (L.)
//
// The quantity unit is read from the header ("Kg" vs "L."); a value column
// is only present on trade tables and is always US$. Volume tables have no
// country column, so every row belongs to "Brasil". The aggregate "Total"
// row is skipped.
//
// Errors:
//   - file not readable → wraps models.ErrSourceUnavailable
//   - no data table, unexpected header, or unparsable number → wraps
//     models.ErrMalformedSource
func LoadHTML(path string, category models.Category, year int) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", models.ErrSourceUnavailable, path, err)
	}
	defer func() { _ = f.Close() }()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", models.ErrMalformedSource, path, err)
	}

	table := doc.Find(dataTableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no data table in %s", models.ErrMalformedSource, path)
	}

	headers := table.Find("thead th").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
	if len(headers) == 0 {
		// Some snapshots have no thead; the first row carries the headers.
		headers = table.Find("tr").First().Find("th, td").Map(func(_ int, s *goquery.Selection) string {
			return strings.TrimSpace(s.Text())
		})
	}
	if len(headers) < 2 {
		return nil, fmt.Errorf("%w: data table in %s has %d header cells", models.ErrMalformedSource, path, len(headers))
	}

	byCountry := strings.EqualFold(headers[0], "Países") || strings.EqualFold(headers[0], "Paises")
	if !byCountry && !strings.EqualFold(headers[0], "Produto") {
		return nil, fmt.Errorf("%w: unexpected first column %q in %s", models.ErrMalformedSource, headers[0], path)
	}

	unit := models.UnitLiter
	if strings.Contains(headers[1], "Kg") {
		unit = models.UnitKg
	}
	hasValue := len(headers) >= 3 && strings.Contains(headers[2], "US$")

	var (
		out     []models.Record
		rowErr  error
		rowsSel = table.Find("tbody tr")
	)
	if rowsSel.Length() == 0 {
		rowsSel = table.Find("tr")
	}

	rowsSel.EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td").Map(func(_ int, s *goquery.Selection) string {
			return strings.TrimSpace(s.Text())
		})
		if len(cells) < 2 {
			return true // header or spacer row
		}
		if strings.EqualFold(cells[0], "Total") {
			return true
		}

		rec := models.Record{
			Year:     year,
			Category: category,
			Unit:     unit,
			Currency: models.CurrencyUSD,
		}
		if byCountry {
			rec.Country = cells[0]
		} else {
			rec.Country = "Brasil"
		}

		q, err := parseTableNumber(cells[1])
		if err != nil {
			rowErr = fmt.Errorf("%w: row %q in %s: quantity: %v", models.ErrMalformedSource, cells[0], path, err)
			return false
		}
		rec.Quantity = q

		if hasValue && len(cells) >= 3 {
			v, err := parseTableNumber(cells[2])
			if err != nil {
				rowErr = fmt.Errorf("%w: row %q in %s: value: %v", models.ErrMalformedSource, cells[0], path, err)
				return false
			}
			rec.Value = v
		}

		out = append(out, rec)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return out, nil
}

// parseTableNumber parses a VitiBrasil table cell: "-" and "" mean "not
// reported" (nil), dots are thousand separators, commas decimal separators.
func parseTableNumber(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "*" {
		return nil, nil
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, fmt.Errorf("negative value %v", v)
	}
	return &v, nil
}
