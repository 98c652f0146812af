package enrich

import (
	"github.com/guttosm/vitipulse/internal/domain/models"
	"github.com/guttosm/vitipulse/internal/logger"
)

// Enrich computes the derived indicators for a batch of cleaned records.
//
// Derived fields are pure functions of the cleaned fields; the input
// slice is never mutated. Per-liter prices are the exact quotient
// value/quantity, unrounded (reports round at render time), and a
// quantity of exactly zero yields a nil price — never an error. Volume
// bands are assigned relative to the batch (see volumeBands).
func Enrich(records []models.CleanedRecord) []models.EnrichedRecord {
	log := logger.Stage("enrich")

	quantities := make([]float64, len(records))
	for i, r := range records {
		quantities[i] = r.Quantity
	}
	band := volumeBands(quantities)

	out := make([]models.EnrichedRecord, len(records))
	for i, r := range records {
		e := models.EnrichedRecord{
			CleanedRecord: r,
			VolumeBand:    band(r.Quantity),
		}
		if r.Quantity > 0 {
			avg := r.Value / r.Quantity
			usd := r.ValueUSD / r.Quantity
			e.AveragePrice = &avg
			e.PricePerLiterUSD = &usd
		}
		out[i] = e
	}

	log.Info().Int("rows", len(out)).Msg("enrich done")
	return out
}
