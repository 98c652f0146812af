package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/guttosm/vitipulse/internal/domain/dto"
	"github.com/guttosm/vitipulse/internal/domain/models"
)

// Reports mirror the source convention: "-" marks a value that does not
// exist (a price over zero liters), as opposed to a computed zero.
const notReported = "-"

var enrichedHeaders = []string{
	"Ano",
	"Pais",
	"Continente",
	"Categoria",
	"Quantidade (L)",
	"Valor (R$)",
	"Valor (US$)",
	"Preco Medio (R$/L)",
	"Preco Medio (US$/L)",
	"Faixa Volume",
}

var aggregateHeaders = []string{
	"Grupo",
	"Quantidade Total (L)",
	"Valor Total (R$)",
	"Participacao",
	"Ranking",
}

// WriteEnrichedCSV writes the unified enriched dataset as a
// semicolon-separated CSV artifact.
func WriteEnrichedCSV(path string, records []models.EnrichedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(enrichedHeaders); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Year),
			r.Country,
			r.Continent,
			string(r.Category),
			formatFloat(r.Quantity),
			formatFloat(r.Value),
			formatFloat(r.ValueUSD),
			formatOptional(r.AveragePrice),
			formatOptional(r.PricePerLiterUSD),
			string(r.VolumeBand),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteAggregatesCSV writes one aggregation's results as a CSV artifact,
// preserving the aggregator's deterministic order.
func WriteAggregatesCSV(path string, results []models.AggregateResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(aggregateHeaders); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			KeyLabel(r.Key),
			formatFloat(r.TotalQuantity),
			formatFloat(r.TotalValue),
			formatFloat(r.ShareOfTotal),
			strconv.Itoa(r.Rank),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteRunSummary writes the run accounting as a JSON artifact.
func WriteRunSummary(path string, summary dto.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// WriteNarrative writes a short plain-text summary of the run: the row
// accounting plus the leading groups of the main aggregation.
func WriteNarrative(path string, summary dto.RunSummary, results []models.AggregateResult, topN int) error {
	var b strings.Builder

	fmt.Fprintf(&b, "vitipulse run %s\n", summary.RunID)
	fmt.Fprintf(&b, "period: %d-%d, categories: %s\n",
		summary.Years[0], summary.Years[1], strings.Join(summary.Categories, ", "))
	fmt.Fprintf(&b, "rows: %d read, %d dropped, %d processed\n",
		summary.RowsRead, summary.RowsDropped, summary.RowsProcessed)
	for reason, n := range summary.DropReasons {
		fmt.Fprintf(&b, "  dropped (%s): %d\n", reason, n)
	}

	if len(results) > 0 {
		if topN > len(results) {
			topN = len(results)
		}
		fmt.Fprintf(&b, "\ntop %d groups by ranked measure:\n", topN)
		for _, r := range results[:topN] {
			fmt.Fprintf(&b, "  %2d. %-30s %15.2f L %18.2f R$  %5.1f%%\n",
				r.Rank, KeyLabel(r.Key), r.TotalQuantity, r.TotalValue, r.ShareOfTotal*100)
		}
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// KeyLabel renders the set dimensions of a group key as a stable,
// human-readable label, e.g. "França / Europa / 2020".
func KeyLabel(k models.GroupKey) string {
	var parts []string
	if k.Country != "" {
		parts = append(parts, k.Country)
	}
	if k.Continent != "" {
		parts = append(parts, k.Continent)
	}
	if k.Category != "" {
		parts = append(parts, string(k.Category))
	}
	if k.Year != 0 {
		parts = append(parts, strconv.Itoa(k.Year))
	}
	if len(parts) == 0 {
		return "(all)"
	}
	return strings.Join(parts, " / ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOptional renders a derived price: "-" for a value that does not
// exist, otherwise rounded to 2 decimals. The models keep exact
// quotients; rounding happens only here at the artifact boundary.
func formatOptional(v *float64) string {
	if v == nil {
		return notReported
	}
	return formatFloat(math.Round(*v*100) / 100)
}
