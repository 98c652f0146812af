package cleaning

import (
	"fmt"
	"math"

	"github.com/guttosm/vitipulse/internal/domain/models"
	"github.com/guttosm/vitipulse/internal/logger"
)

// WineDensity converts wine mass to volume: kg per liter. The value the
// Embrapa dataset documentation uses for table wine.
const WineDensity = 0.995

// Drop reasons surfaced in the clean report. Every dropped row is counted
// under exactly one of these.
const (
	DropEmptyMeasures    = "empty_measures"
	DropUnknownContinent = "unknown_continent"
	DropMissingRate      = "missing_exchange_rate"
)

// Report is the accounting of one clean pass. Rows are never silently
// discarded: RowsRead = RowsKept + RowsDropped, and DropReasons breaks the
// dropped count down per reason.
type Report struct {
	RowsRead    int
	RowsKept    int
	RowsDropped int
	DropReasons map[string]int

	// RowErrors collects the row-scoped label failures (each wraps
	// models.ErrUnknownCategory) so callers can inspect them after the
	// run instead of being interrupted per row.
	RowErrors []error
}

func (r *Report) drop(reason string) {
	r.RowsDropped++
	if r.DropReasons == nil {
		r.DropReasons = make(map[string]int)
	}
	r.DropReasons[reason]++
}

// Clean normalizes raw Records into CleanedRecords.
//
// Policy, in order per row:
//   - nil measures are coalesced to 0; a row with quantity ≤ 0 AND value ≤ 0
//     is dropped (not imputed) and counted under empty_measures.
//   - the country label is corrected via the replacement table; the
//     continent comes from the lookup table. An unmapped country keeps a
//     continent provided by the source, otherwise the row is dropped under
//     unknown_continent.
//   - quantity in kg is converted to liters with WineDensity.
//   - value is normalized to BRL with the year's rate; rows of a year the
//     rate table does not cover are dropped under missing_exchange_rate.
//
// The input slice is never mutated; each kept row yields a fresh
// CleanedRecord. Clean never fails: structural problems belong to the
// loader, everything here is row-scoped.
func Clean(records []models.Record, rates Rates) ([]models.CleanedRecord, Report) {
	log := logger.Stage("clean")

	report := Report{RowsRead: len(records)}
	out := make([]models.CleanedRecord, 0, len(records))

	for _, rec := range records {
		quantity := 0.0
		if rec.Quantity != nil {
			quantity = *rec.Quantity
		}
		value := 0.0
		if rec.Value != nil {
			value = *rec.Value
		}
		if quantity <= 0 && value <= 0 {
			report.drop(DropEmptyMeasures)
			continue
		}

		country := CorrectCountry(rec.Country)
		continent, ok := ContinentOf(country)
		if !ok {
			if rec.Continent == "" {
				log.Debug().Str("country", country).Int("year", rec.Year).Msg("row dropped: unmapped continent")
				report.drop(DropUnknownContinent)
				report.RowErrors = append(report.RowErrors,
					fmt.Errorf("%w: no continent for country %q", models.ErrUnknownCategory, country))
				continue
			}
			continent = rec.Continent
		}

		if rec.Unit == models.UnitKg {
			quantity = round2(quantity / WineDensity)
		}

		rate, ok := rates.For(rec.Year)
		if !ok {
			log.Debug().Int("year", rec.Year).Msg("row dropped: no exchange rate")
			report.drop(DropMissingRate)
			continue
		}

		var valueBRL, valueUSD float64
		switch rec.Currency {
		case models.CurrencyUSD:
			valueUSD = value
			valueBRL = round2(value * rate)
		case models.CurrencyBRL:
			valueBRL = value
			valueUSD = round2(value / rate)
		}

		out = append(out, models.CleanedRecord{
			Year:      rec.Year,
			Country:   country,
			Continent: continent,
			Category:  rec.Category,
			Quantity:  quantity,
			Value:     valueBRL,
			ValueUSD:  valueUSD,
		})
		report.RowsKept++
	}

	log.Info().
		Int("read", report.RowsRead).
		Int("kept", report.RowsKept).
		Int("dropped", report.RowsDropped).
		Msg("clean done")

	return out, report
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
