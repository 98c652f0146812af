package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/vitipulse/internal/cleaning"
	"github.com/guttosm/vitipulse/internal/domain/dto"
	"github.com/guttosm/vitipulse/internal/domain/models"
	"github.com/guttosm/vitipulse/internal/enrich"
	"github.com/guttosm/vitipulse/internal/ingestion"
	"github.com/guttosm/vitipulse/internal/logger"
	"github.com/guttosm/vitipulse/internal/report"
	"github.com/guttosm/vitipulse/internal/service"
	"github.com/guttosm/vitipulse/internal/storage"
)

// RunOptions carries everything one pipeline run needs. The CLI builds it
// from config defaults plus flag overrides.
type RunOptions struct {
	RawDir    string
	OutDir    string
	RatesFile string

	FromYear   int
	ToYear     int
	Categories []models.Category

	// Primary grouping; drives ranking, the narrative, and the chart.
	GroupBy models.GroupBy

	TopN        int
	SinkEnabled bool

	// Force re-sinks the day: aggregates of earlier runs logged on the
	// same day are deleted before this run's are inserted.
	Force bool
}

// Grouping names one aggregation the run computes and reports.
type Grouping struct {
	Name string
	Spec models.GroupBy
}

// groupings returns the aggregations of a run: the primary one first,
// then the standard secondary views (skipping any duplicate of the
// primary).
func groupings(primary models.GroupBy) []Grouping {
	out := []Grouping{{Name: "principal", Spec: primary}}
	secondary := []Grouping{
		{Name: "por_pais", Spec: models.GroupBy{Keys: []models.DimensionKey{models.DimCountry}, RankBy: primary.RankBy}},
		{Name: "por_continente", Spec: models.GroupBy{Keys: []models.DimensionKey{models.DimContinent}, RankBy: primary.RankBy}},
		{Name: "por_ano", Spec: models.GroupBy{Keys: []models.DimensionKey{models.DimYear}, RankBy: primary.RankBy}},
		{Name: "por_categoria", Spec: models.GroupBy{Keys: []models.DimensionKey{models.DimCategory}, RankBy: primary.RankBy}},
	}
	for _, g := range secondary {
		if !sameKeys(g.Spec.Keys, primary.Keys) {
			out = append(out, g)
		}
	}
	return out
}

func sameKeys(a, b []models.DimensionKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Run executes one full pipeline pass:
// load → clean → enrich → aggregate → report (+ optional Postgres sink).
//
// Structural failures (missing/unreadable/misshapen sources) abort and
// return the error; row-scoped issues are absorbed into the run summary.
// On success the returned RunSummary is the same accounting written to
// the run_summary.json artifact.
func Run(opts RunOptions) (dto.RunSummary, error) {
	log := logger.L()
	start := time.Now()

	summary := dto.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: start.UTC(),
		Years:     [2]int{opts.FromYear, opts.ToYear},
	}
	for _, c := range opts.Categories {
		summary.Categories = append(summary.Categories, string(c))
	}

	rates, err := cleaning.LoadRates(opts.RatesFile)
	if err != nil {
		return summary, fmt.Errorf("load rates: %w", err)
	}

	records, err := ingestion.LoadRange(opts.RawDir, opts.FromYear, opts.ToYear, opts.Categories)
	if err != nil {
		return summary, fmt.Errorf("load sources: %w", err)
	}

	cleaned, cleanReport := cleaning.Clean(records, rates)
	enriched := enrich.Enrich(cleaned)

	summary.RowsRead = cleanReport.RowsRead
	summary.RowsDropped = cleanReport.RowsDropped
	summary.RowsProcessed = cleanReport.RowsKept
	summary.DropReasons = cleanReport.DropReasons

	agg := service.NewAggregator()
	groups := groupings(opts.GroupBy)
	names := make([]string, 0, len(groups))
	results := make(map[string][]models.AggregateResult, len(groups))
	for _, g := range groups {
		r, err := agg.Aggregate(enriched, g.Spec)
		if err != nil {
			return summary, fmt.Errorf("aggregate %s: %w", g.Name, err)
		}
		names = append(names, g.Name)
		results[g.Name] = r
	}
	primary := results[names[0]]
	summary.Groups = len(primary)
	summary.ElapsedMs = time.Since(start).Milliseconds()

	if err := writeArtifacts(opts, summary, enriched, names, results); err != nil {
		return summary, err
	}

	if opts.SinkEnabled {
		if err := sinkResults(summary, primary, opts.Force); err != nil {
			return summary, fmt.Errorf("postgres sink: %w", err)
		}
	}

	log.Info().
		Str("run_id", summary.RunID).
		Int("read", summary.RowsRead).
		Int("dropped", summary.RowsDropped).
		Int("processed", summary.RowsProcessed).
		Int("groups", summary.Groups).
		Msg("run complete")

	return summary, nil
}

// writeArtifacts renders every report artifact into OutDir.
func writeArtifacts(opts RunOptions, summary dto.RunSummary, enriched []models.EnrichedRecord, names []string, results map[string][]models.AggregateResult) error {
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", opts.OutDir, err)
	}

	if err := report.WriteEnrichedCSV(filepath.Join(opts.OutDir, "enriched.csv"), enriched); err != nil {
		return err
	}
	for _, name := range names {
		if err := report.WriteAggregatesCSV(filepath.Join(opts.OutDir, name+".csv"), results[name]); err != nil {
			return err
		}
	}
	if err := report.WriteWorkbook(filepath.Join(opts.OutDir, "report.xlsx"), summary, names, results, opts.TopN); err != nil {
		return err
	}
	if err := report.WriteNarrative(filepath.Join(opts.OutDir, "report.txt"), summary, results[names[0]], opts.TopN); err != nil {
		return err
	}
	return report.WriteRunSummary(filepath.Join(opts.OutDir, "run_summary.json"), summary)
}

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = storage.NewAggregatesRepository

// sinkResults writes the primary aggregation plus the run accounting to
// Postgres. With force set, aggregates of earlier runs logged on the same
// day are removed first.
func sinkResults(summary dto.RunSummary, results []models.AggregateResult, force bool) error {
	db, err := postgresOpener()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	repo := repoCtor(db)
	if force {
		if err := repo.DeleteAggregatesByDate(summary.StartedAt); err != nil {
			return err
		}
	}
	if err := repo.InsertAggregatesBatch(summary.RunID, results); err != nil {
		return err
	}
	return repo.UpsertRunLog(summary.RunID, summary.StartedAt, summary.RowsRead, summary.RowsDropped, summary.RowsProcessed)
}
