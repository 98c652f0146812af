package ingestion

import (
	"errors"
	"testing"

	"github.com/guttosm/vitipulse/internal/domain/models"
)

const tradePage = `<html><body>
<table class="tb_base tb_dados">
<thead><tr><th>Países</th><th>Quantidade (Kg)</th><th>Valor (US$)</th></tr></thead>
<tbody>
<tr><td>Paraguai</td><td>1.234.567</td><td>890.123</td></tr>
<tr><td>Rússia</td><td>-</td><td>-</td></tr>
<tr><td>Total</td><td>1.234.567</td><td>890.123</td></tr>
</tbody>
</table>
</body></html>`

const productionPage = `<html><body>
<table class="tb_base tb_dados">
<thead><tr><th>Produto</th><th>Quantidade (L.)</th></tr></thead>
<tbody>
<tr><td>Vinho de mesa</td><td>170.150.500</td></tr>
<tr><td>Total</td><td>170.150.500</td></tr>
</tbody>
</table>
</body></html>`

const noTablePage = `<html><body><p>nada aqui</p></body></html>`

const badNumberPage = `<html><body>
<table class="tb_base tb_dados">
<thead><tr><th>Países</th><th>Quantidade (Kg)</th><th>Valor (US$)</th></tr></thead>
<tbody><tr><td>Chile</td><td>abc</td><td>1</td></tr></tbody>
</table>
</body></html>`

func TestLoadHTML_TradeTable(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "2020_export.html", tradePage)

	records, err := LoadHTML(path, models.CategoryExport, 2020)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2 rows (Total skipped), got %d", len(records))
	}

	first := records[0]
	if first.Country != "Paraguai" || first.Year != 2020 || first.Category != models.CategoryExport {
		t.Fatalf("dimensions wrong: %+v", first)
	}
	if first.Unit != models.UnitKg || first.Currency != models.CurrencyUSD {
		t.Fatalf("unit/currency wrong: %+v", first)
	}
	if first.Quantity == nil || *first.Quantity != 1234567 {
		t.Fatalf("thousand separators not stripped: %+v", first.Quantity)
	}
	if first.Value == nil || *first.Value != 890123 {
		t.Fatalf("value wrong: %+v", first.Value)
	}

	// "-" cells are "not reported", loaded as nil for the cleaner to judge.
	second := records[1]
	if second.Quantity != nil || second.Value != nil {
		t.Fatalf("dash cells should be nil: %+v", second)
	}
}

func TestLoadHTML_ProductionTable(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "2020_production.html", productionPage)

	records, err := LoadHTML(path, models.CategoryProduction, 2020)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 row, got %d", len(records))
	}
	r := records[0]
	if r.Country != "Brasil" {
		t.Fatalf("production rows belong to Brasil, got %q", r.Country)
	}
	if r.Unit != models.UnitLiter {
		t.Fatalf("unit should come from header: %+v", r)
	}
	if r.Value != nil {
		t.Fatalf("volume tables carry no value: %+v", r)
	}
	if r.Quantity == nil || *r.Quantity != 170150500 {
		t.Fatalf("quantity wrong: %+v", r.Quantity)
	}
}

func TestLoadHTML_Errors(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		content string
	}{
		{name: "no data table", content: noTablePage},
		{name: "bad number", content: badNumberPage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, dir, "2020_export.html", tc.content)
			if _, err := LoadHTML(path, models.CategoryExport, 2020); !errors.Is(err, models.ErrMalformedSource) {
				t.Fatalf("want ErrMalformedSource, got %v", err)
			}
		})
	}

	if _, err := LoadHTML(dir+"/missing.html", models.CategoryExport, 2020); !errors.Is(err, models.ErrSourceUnavailable) {
		t.Fatalf("want ErrSourceUnavailable, got %v", err)
	}
}
