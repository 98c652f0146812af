package models

import "testing"

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"export", CategoryExport, true},
		{"exportação", CategoryExport, true},
		{"producao", CategoryProduction, true},
		{"comercialização", CategoryCommercialization, true},
		{"importacao", CategoryImport, true},
		{"smuggling", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseCategory(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseCategory(%q)=(%q,%v), want (%q,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseUnitAndCurrency(t *testing.T) {
	if u, ok := ParseUnit("Kg"); !ok || u != UnitKg {
		t.Fatalf("ParseUnit(Kg)=(%q,%v)", u, ok)
	}
	if u, ok := ParseUnit("litro"); !ok || u != UnitLiter {
		t.Fatalf("ParseUnit(litro)=(%q,%v)", u, ok)
	}
	if _, ok := ParseUnit("ton"); ok {
		t.Fatalf("ParseUnit(ton) should fail")
	}

	if c, ok := ParseCurrency("US$"); !ok || c != CurrencyUSD {
		t.Fatalf("ParseCurrency(US$)=(%q,%v)", c, ok)
	}
	if c, ok := ParseCurrency("brl"); !ok || c != CurrencyBRL {
		t.Fatalf("ParseCurrency(brl)=(%q,%v)", c, ok)
	}
	if _, ok := ParseCurrency("EUR"); ok {
		t.Fatalf("ParseCurrency(EUR) should fail")
	}
}

func TestParseDimensionKeyAndMeasure(t *testing.T) {
	for _, s := range []string{"year", "country", "continent", "category"} {
		if _, ok := ParseDimensionKey(s); !ok {
			t.Fatalf("ParseDimensionKey(%q) should succeed", s)
		}
	}
	if _, ok := ParseDimensionKey("ticker"); ok {
		t.Fatalf("ParseDimensionKey(ticker) should fail")
	}

	if m, ok := ParseMeasure("quantity"); !ok || m != MeasureQuantity {
		t.Fatalf("ParseMeasure(quantity)=(%q,%v)", m, ok)
	}
	if _, ok := ParseMeasure("volume"); ok {
		t.Fatalf("ParseMeasure(volume) should fail")
	}
}
