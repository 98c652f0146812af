package main

import (
	"testing"

	"github.com/guttosm/vitipulse/internal/domain/models"
)

func TestParseCategories(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "empty means all", in: "", want: len(models.Categories)},
		{name: "single", in: "export", want: 1},
		{name: "multiple with spaces", in: "export, import", want: 2},
		{name: "portuguese label", in: "exportação", want: 1},
		{name: "unknown", in: "smuggling", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cats, err := parseCategories(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(cats) != tc.want {
				t.Fatalf("want %d categories, got %d", tc.want, len(cats))
			}
		})
	}
}

func TestParseGroupBy(t *testing.T) {
	spec, err := parseGroupBy("country,year", "quantity")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(spec.Keys) != 2 || spec.Keys[0] != models.DimCountry || spec.Keys[1] != models.DimYear {
		t.Fatalf("keys wrong: %+v", spec.Keys)
	}
	if spec.RankBy != models.MeasureQuantity {
		t.Fatalf("measure wrong: %s", spec.RankBy)
	}

	if _, err := parseGroupBy("ticker", "value"); err == nil {
		t.Fatalf("expected error for unknown dimension")
	}
	if _, err := parseGroupBy("country", "volume"); err == nil {
		t.Fatalf("expected error for unknown measure")
	}
}
