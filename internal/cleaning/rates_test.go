package cleaning

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/guttosm/vitipulse/internal/domain/models"
)

func writeRatesFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "rates.csv")
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return p
}

func TestLoadRates_FileOverridesBuiltin(t *testing.T) {
	path := writeRatesFile(t, "Ano;Cambio\n2020;9,99\n1980;0,05\n")

	rates, err := LoadRates(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v, _ := rates.For(2020); v != 9.99 {
		t.Fatalf("override lost: %v", v)
	}
	if v, _ := rates.For(1980); v != 0.05 {
		t.Fatalf("extension lost: %v", v)
	}
	// untouched builtin year survives the merge
	if _, ok := rates.For(2019); !ok {
		t.Fatalf("builtin year gone after merge")
	}
}

func TestLoadRates_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "bad header", content: "Year;Rate\n2020;5\n", wantErr: models.ErrMalformedSource},
		{name: "bad year", content: "Ano;Cambio\nabcd;5\n", wantErr: models.ErrMalformedSource},
		{name: "bad rate", content: "Ano;Cambio\n2020;x\n", wantErr: models.ErrMalformedSource},
		{name: "zero rate", content: "Ano;Cambio\n2020;0\n", wantErr: models.ErrMalformedSource},
		{name: "empty file", content: "", wantErr: models.ErrMalformedSource},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRatesFile(t, tc.content)
			if _, err := LoadRates(path); !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}

	if _, err := LoadRates(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, models.ErrSourceUnavailable) {
		t.Fatalf("want ErrSourceUnavailable, got %v", err)
	}
}
