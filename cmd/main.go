package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/guttosm/vitipulse/config"
	"github.com/guttosm/vitipulse/internal/app"
	"github.com/guttosm/vitipulse/internal/domain/models"
	"github.com/guttosm/vitipulse/internal/fetch"
	"github.com/guttosm/vitipulse/internal/logger"
)

// parseCategories turns a comma-separated flag value into categories.
// An empty value means every category.
func parseCategories(s string) ([]models.Category, error) {
	if strings.TrimSpace(s) == "" {
		return append([]models.Category(nil), models.Categories...), nil
	}
	var out []models.Category
	for _, part := range strings.Split(s, ",") {
		cat, ok := models.ParseCategory(strings.ToLower(strings.TrimSpace(part)))
		if !ok {
			return nil, fmt.Errorf("unknown category %q", part)
		}
		out = append(out, cat)
	}
	return out, nil
}

// parseGroupBy builds the primary grouping spec from the --group-by and
// --rank-by flag values.
func parseGroupBy(keys, rankBy string) (models.GroupBy, error) {
	var spec models.GroupBy
	for _, part := range strings.Split(keys, ",") {
		key, ok := models.ParseDimensionKey(strings.ToLower(strings.TrimSpace(part)))
		if !ok {
			return spec, fmt.Errorf("unknown dimension %q", part)
		}
		spec.Keys = append(spec.Keys, key)
	}
	measure, ok := models.ParseMeasure(strings.ToLower(strings.TrimSpace(rankBy)))
	if !ok {
		return spec, fmt.Errorf("unknown measure %q", rankBy)
	}
	spec.RankBy = measure
	return spec, nil
}

// main is the entry point of the vitipulse application.
//
// Modes (selected via --mode flag):
//   - run:   executes the full pipeline over files in the raw directory
//     and writes report artifacts to the output directory.
//   - fetch: downloads VitiBrasil source pages into the raw directory.
//
// Flags override config defaults where provided. Exit code is 0 on
// success; unrecoverable load/parse failures exit non-zero via the
// logger's Fatal.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "run", "Mode: run or fetch")
	raw := flag.String("raw", config.AppConfig.Data.RawDir, "Directory with source files")
	out := flag.String("out", config.AppConfig.Data.OutDir, "Directory for report artifacts")
	rates := flag.String("rates", config.AppConfig.Data.RatesFile, "Optional USD/BRL rates CSV")
	from := flag.Int("from", config.AppConfig.Pipeline.FromYear, "First year (inclusive)")
	to := flag.Int("to", config.AppConfig.Pipeline.ToYear, "Last year (inclusive)")
	categories := flag.String("categories", "", "Comma-separated categories (default: all)")
	groupBy := flag.String("group-by", "country", "Comma-separated grouping dimensions")
	rankBy := flag.String("rank-by", "value", "Ranking measure: quantity or value")
	topN := flag.Int("top", config.AppConfig.Pipeline.TopN, "Top-N groups in chart and narrative")
	force := flag.Bool("force", false, "Re-download pages already present (fetch) or re-sink the day's aggregates (run)")
	sink := flag.Bool("sink", config.AppConfig.Sink.Enabled, "Also write aggregates to Postgres")
	flag.Parse()

	if *from > *to {
		logger.L().Fatal().Int("from", *from).Int("to", *to).Msg("invalid year range")
	}

	cats, err := parseCategories(*categories)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("invalid --categories")
	}

	switch *mode {
	case "run":
		spec, err := parseGroupBy(*groupBy, *rankBy)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("invalid grouping flags")
		}

		summary, err := app.Run(app.RunOptions{
			RawDir:      *raw,
			OutDir:      *out,
			RatesFile:   *rates,
			FromYear:    *from,
			ToYear:      *to,
			Categories:  cats,
			GroupBy:     spec,
			TopN:        *topN,
			SinkEnabled: *sink,
			Force:       *force,
		})
		if err != nil {
			logger.L().Fatal().Err(err).Msg("pipeline failed")
		}
		logger.L().Info().Str("out", *out).Str("run_id", summary.RunID).Msg("pipeline completed successfully")

	case "fetch":
		f := fetch.New(
			config.AppConfig.Fetch.BaseURL,
			config.AppConfig.Fetch.RequestsPerSec,
			config.AppConfig.Fetch.MaxParallel,
			config.AppConfig.Fetch.TimeoutSec,
		)
		if err := f.FetchRange(ctx, *raw, *from, *to, cats, *force); err != nil {
			logger.L().Fatal().Err(err).Msg("fetch failed")
		}
		logger.L().Info().Str("dir", *raw).Msg("fetch completed successfully")

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
