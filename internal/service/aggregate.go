package service

import (
	"fmt"
	"sort"

	"github.com/guttosm/vitipulse/internal/domain/models"
	"github.com/guttosm/vitipulse/internal/logger"
)

// Aggregator defines business logic for computing grouped summaries.
type Aggregator interface {
	Aggregate(records []models.EnrichedRecord, spec models.GroupBy) ([]models.AggregateResult, error)
}

type aggregator struct{}

func NewAggregator() Aggregator {
	return &aggregator{}
}

// Aggregate groups enriched records by the requested dimension keys and
// computes totals, ranks, and shares.
//
// ShareOfTotal divides each group's ranked measure by the grand total
// over all input rows, so shares across the full partition sum to 1
// (within floating tolerance) whenever the grand total is positive; a
// zero grand total yields all-zero shares.
//
// Ordering is deterministic: stable sort by ranked measure descending,
// then country ascending, then the remaining key fields. Rank is the
// 1-based position in that order. Running Aggregate twice on identical
// input yields identical output.
func (a *aggregator) Aggregate(records []models.EnrichedRecord, spec models.GroupBy) ([]models.AggregateResult, error) {
	if len(spec.Keys) == 0 {
		return nil, fmt.Errorf("grouping spec needs at least one dimension key")
	}
	seen := make(map[models.DimensionKey]bool, len(spec.Keys))
	for _, k := range spec.Keys {
		switch k {
		case models.DimYear, models.DimCountry, models.DimContinent, models.DimCategory:
		default:
			return nil, fmt.Errorf("unknown dimension key %q", k)
		}
		if seen[k] {
			return nil, fmt.Errorf("duplicate dimension key %q", k)
		}
		seen[k] = true
	}
	switch spec.RankBy {
	case models.MeasureQuantity, models.MeasureValue:
	default:
		return nil, fmt.Errorf("unknown ranking measure %q", spec.RankBy)
	}

	// Accumulate totals per group key; track first-seen order so the map
	// never influences output order.
	totals := make(map[models.GroupKey]*models.AggregateResult)
	var order []models.GroupKey
	for _, rec := range records {
		key := groupKeyOf(rec, spec.Keys)
		acc, ok := totals[key]
		if !ok {
			acc = &models.AggregateResult{Key: key}
			totals[key] = acc
			order = append(order, key)
		}
		acc.TotalQuantity += rec.Quantity
		acc.TotalValue += rec.Value
	}

	out := make([]models.AggregateResult, 0, len(order))
	var grand float64
	for _, key := range order {
		acc := totals[key]
		grand += rankedMeasure(*acc, spec.RankBy)
		out = append(out, *acc)
	}

	if grand > 0 {
		for i := range out {
			out[i].ShareOfTotal = rankedMeasure(out[i], spec.RankBy) / grand
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := rankedMeasure(out[i], spec.RankBy), rankedMeasure(out[j], spec.RankBy)
		if mi != mj {
			return mi > mj
		}
		return lessKey(out[i].Key, out[j].Key)
	})
	for i := range out {
		out[i].Rank = i + 1
	}

	log := logger.Stage("aggregate")
	log.Info().
		Int("rows", len(records)).
		Int("groups", len(out)).
		Msg("aggregate done")

	return out, nil
}

// groupKeyOf projects a record onto the requested dimensions; unrequested
// dimensions stay at their zero value so equal projections collide.
func groupKeyOf(rec models.EnrichedRecord, keys []models.DimensionKey) models.GroupKey {
	var k models.GroupKey
	for _, dim := range keys {
		switch dim {
		case models.DimYear:
			k.Year = rec.Year
		case models.DimCountry:
			k.Country = rec.Country
		case models.DimContinent:
			k.Continent = rec.Continent
		case models.DimCategory:
			k.Category = rec.Category
		}
	}
	return k
}

func rankedMeasure(r models.AggregateResult, m models.Measure) float64 {
	if m == models.MeasureQuantity {
		return r.TotalQuantity
	}
	return r.TotalValue
}

// lessKey is the tie-break order: country first (the documented
// alphabetical tie-break), then the remaining dimensions for full
// determinism when country is not part of the grouping.
func lessKey(a, b models.GroupKey) bool {
	if a.Country != b.Country {
		return a.Country < b.Country
	}
	if a.Continent != b.Continent {
		return a.Continent < b.Continent
	}
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	return a.Year < b.Year
}
