package models

// DimensionKey names one grouping dimension of the dataset.
type DimensionKey string

const (
	DimYear      DimensionKey = "year"
	DimCountry   DimensionKey = "country"
	DimContinent DimensionKey = "continent"
	DimCategory  DimensionKey = "category"
)

// ParseDimensionKey maps a CLI/config label to a DimensionKey.
func ParseDimensionKey(s string) (DimensionKey, bool) {
	switch DimensionKey(s) {
	case DimYear, DimCountry, DimContinent, DimCategory:
		return DimensionKey(s), true
	}
	return "", false
}

// Measure selects which total ranking and shares are computed over.
type Measure string

const (
	MeasureQuantity Measure = "quantity"
	MeasureValue    Measure = "value"
)

// ParseMeasure maps a CLI/config label to a Measure.
func ParseMeasure(s string) (Measure, bool) {
	switch Measure(s) {
	case MeasureQuantity, MeasureValue:
		return Measure(s), true
	}
	return "", false
}

// GroupBy is a grouping specification: the ordered dimension keys to
// group on plus the measure used for ranking and share computation.
type GroupBy struct {
	Keys   []DimensionKey
	RankBy Measure
}

// GroupKey holds the dimension values of one group. Only the fields
// named in the GroupBy keys are set; the rest stay zero.
type GroupKey struct {
	Year      int
	Country   string
	Continent string
	Category  Category
}

// AggregateResult is one group's summary statistics.
//
// ShareOfTotal is the group's ranked measure divided by the grand total
// over the whole partition; across a complete partition the shares sum
// to 1.0 within floating tolerance. Rank is 1-based in the final
// deterministic order (ranked measure descending, country ascending).
type AggregateResult struct {
	Key GroupKey

	TotalQuantity float64
	TotalValue    float64
	ShareOfTotal  float64
	Rank          int
}
