package ingestion

import (
	"errors"
	"strings"
	"testing"

	"github.com/guttosm/vitipulse/internal/domain/models"
)

func TestParseSourceName(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		wantYear int
		wantCat  models.Category
		wantErr  bool
	}{
		{name: "export html", path: "/x/2020_export.html", wantYear: 2020, wantCat: models.CategoryExport},
		{name: "production htm", path: "2019_production.htm", wantYear: 2019, wantCat: models.CategoryProduction},
		{name: "no underscore", path: "2020export.html", wantErr: true},
		{name: "bad year", path: "abcd_export.html", wantErr: true},
		{name: "bad category", path: "2020_sales.html", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			year, cat, err := parseSourceName(tc.path)
			if tc.wantErr {
				if !errors.Is(err, models.ErrMalformedSource) {
					t.Fatalf("want ErrMalformedSource, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if year != tc.wantYear || cat != tc.wantCat {
				t.Fatalf("got (%d, %s), want (%d, %s)", year, cat, tc.wantYear, tc.wantCat)
			}
		})
	}
}

func TestLoadRange_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadRange(dir, 2020, 2020, []models.Category{models.CategoryExport})
	if !errors.Is(err, models.ErrSourceUnavailable) {
		t.Fatalf("want ErrSourceUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "2020_export") {
		t.Fatalf("error should name the missing file: %v", err)
	}
}

func TestLoadRange_CSVPrecedenceAndOrder(t *testing.T) {
	dir := t.TempDir()
	header := "Ano;Pais;Continente;Categoria;Quantidade;Unidade;Valor;Moeda\n"

	// 2020 has both CSV and HTML; CSV must win.
	writeTempFile(t, dir, "2020_export.csv", header+"2020;Chile;;export;10;kg;20;USD\n")
	writeTempFile(t, dir, "2020_export.html", tradePage)
	writeTempFile(t, dir, "2021_export.csv", header+"2021;Uruguai;;export;30;kg;40;USD\n")

	records, err := LoadRange(dir, 2020, 2021, []models.Category{models.CategoryExport})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2 rows, got %d", len(records))
	}
	if records[0].Country != "Chile" || records[1].Country != "Uruguai" {
		t.Fatalf("rows out of order or CSV precedence lost: %+v", records)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "2020_export.xlsx", "not really")
	if _, err := Load(path); !errors.Is(err, models.ErrMalformedSource) {
		t.Fatalf("want ErrMalformedSource, got %v", err)
	}
}
