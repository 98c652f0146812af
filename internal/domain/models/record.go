package models

// Category identifies which VitiBrasil statistic a row belongs to.
type Category string

const (
	CategoryProduction        Category = "production"
	CategoryImport            Category = "import"
	CategoryExport            Category = "export"
	CategoryCommercialization Category = "commercialization"
)

// Categories lists every valid category, in the order reports use.
var Categories = []Category{
	CategoryProduction,
	CategoryImport,
	CategoryExport,
	CategoryCommercialization,
}

// ParseCategory maps a source label to a Category.
// It accepts both the canonical English names and the Portuguese
// labels used by the VitiBrasil pages.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "production", "producao", "produção":
		return CategoryProduction, true
	case "import", "importacao", "importação":
		return CategoryImport, true
	case "export", "exportacao", "exportação":
		return CategoryExport, true
	case "commercialization", "comercializacao", "comercialização":
		return CategoryCommercialization, true
	}
	return "", false
}

// Unit is the measurement unit of a raw quantity cell.
type Unit string

const (
	UnitKg    Unit = "kg"
	UnitLiter Unit = "liter"
)

// ParseUnit maps a source label to a Unit.
func ParseUnit(s string) (Unit, bool) {
	switch s {
	case "kg", "Kg", "KG":
		return UnitKg, true
	case "liter", "litro", "l", "L":
		return UnitLiter, true
	}
	return "", false
}

// Currency is the currency of a raw value cell.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyBRL Currency = "BRL"
)

// ParseCurrency maps a source label to a Currency.
func ParseCurrency(s string) (Currency, bool) {
	switch s {
	case "USD", "usd", "US$":
		return CurrencyUSD, true
	case "BRL", "brl", "R$":
		return CurrencyBRL, true
	}
	return "", false
}

// Record is one raw observation row as loaded from a source file,
// before any normalization.
//
// Quantity and Value are pointers so that an empty or "-" cell is
// distinguishable from a literal zero; the cleaning stage decides what
// to do with nil measures. Unit and Currency are always one of the
// enumerated values — the loader rejects anything else as a malformed
// source rather than letting ambiguous cells flow downstream.
type Record struct {
	Year      int
	Country   string
	Continent string // may be empty; filled from the lookup table during cleaning
	Category  Category

	Quantity *float64
	Unit     Unit
	Value    *float64
	Currency Currency
}

// CleanedRecord is a Record after normalization: quantity in liters,
// value in BRL, no nil measures, labels corrected.
type CleanedRecord struct {
	Year      int
	Country   string
	Continent string
	Category  Category

	Quantity float64 // liters
	Value    float64 // BRL
	ValueUSD float64
}

// VolumeBand classifies a record's volume relative to the batch it was
// enriched with. Bands follow the quartiles of the positive quantities.
type VolumeBand string

const (
	BandNone    VolumeBand = "none"
	BandVeryLow VolumeBand = "very_low"
	BandLow     VolumeBand = "low"
	BandMedium  VolumeBand = "medium"
	BandHigh    VolumeBand = "high"
)

// EnrichedRecord is a CleanedRecord plus derived indicators. Derived
// fields are pure functions of the cleaned fields.
//
// AveragePrice and PricePerLiterUSD are nil when Quantity is exactly
// zero: a zero denominator yields "no price", never an error.
type EnrichedRecord struct {
	CleanedRecord

	AveragePrice     *float64 // BRL per liter
	PricePerLiterUSD *float64
	VolumeBand       VolumeBand
}
