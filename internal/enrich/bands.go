package enrich

import (
	"sort"

	"github.com/guttosm/vitipulse/internal/domain/models"
)

// volumeBands builds a classifier over the positive quantities of a batch.
//
// With at least four distinct positive quantities the band cuts are the
// quartiles of the positive values (linear interpolation between order
// statistics). With fewer distinct values quartiles degenerate, so the
// classifier falls back to four equal-width bins over [min, max]; with a
// single distinct value everything positive lands in the middle band.
// Non-positive quantities always classify as BandNone.
func volumeBands(quantities []float64) func(q float64) models.VolumeBand {
	var pos []float64
	for _, q := range quantities {
		if q > 0 {
			pos = append(pos, q)
		}
	}
	if len(pos) == 0 {
		return func(float64) models.VolumeBand { return models.BandNone }
	}

	sort.Float64s(pos)

	distinct := 1
	for i := 1; i < len(pos); i++ {
		if pos[i] != pos[i-1] {
			distinct++
		}
	}

	if distinct >= 4 {
		q1 := quantile(pos, 0.25)
		q2 := quantile(pos, 0.50)
		q3 := quantile(pos, 0.75)
		return func(q float64) models.VolumeBand {
			switch {
			case q <= 0:
				return models.BandNone
			case q <= q1:
				return models.BandVeryLow
			case q <= q2:
				return models.BandLow
			case q <= q3:
				return models.BandMedium
			default:
				return models.BandHigh
			}
		}
	}

	lo, hi := pos[0], pos[len(pos)-1]
	if lo == hi {
		return func(q float64) models.VolumeBand {
			if q <= 0 {
				return models.BandNone
			}
			return models.BandMedium
		}
	}

	width := (hi - lo) / 4
	return func(q float64) models.VolumeBand {
		if q <= 0 {
			return models.BandNone
		}
		bin := int((q - lo) / width)
		if bin > 3 {
			bin = 3
		}
		if bin < 0 {
			bin = 0
		}
		return [4]models.VolumeBand{
			models.BandVeryLow, models.BandLow, models.BandMedium, models.BandHigh,
		}[bin]
	}
}

// quantile returns the p-quantile of sorted values, interpolating
// linearly between adjacent order statistics.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := p * float64(len(sorted)-1)
	lo := int(h)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
