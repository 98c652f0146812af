package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guttosm/vitipulse/internal/domain/models"
	"github.com/guttosm/vitipulse/internal/logger"
)

// Source files follow "<year>_<category>.<ext>", e.g. "2020_export.html".
// CSV extracts take precedence over HTML snapshots for the same year and
// category.
var sourceExtensions = []string{".csv", ".html", ".htm"}

// Load reads one source file into raw Records, dispatching on extension.
// HTML snapshots carry year and category in the filename; CSV extracts
// carry them per row.
func Load(path string) ([]models.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".html", ".htm":
		year, category, err := parseSourceName(path)
		if err != nil {
			return nil, err
		}
		return LoadHTML(path, category, year)
	default:
		return nil, fmt.Errorf("%w: unsupported source %s", models.ErrMalformedSource, path)
	}
}

// LoadRange loads every (year, category) source in the range from dir.
//
// Behavior:
//   - Builds the expected filename for each (year, category) pair and
//     validates presence upfront; any missing pair fails the whole run
//     before a single row is parsed.
//   - Loads the files sequentially, in (year, category) order, so two runs
//     over the same directory see rows in the same order.
//
// Returns:
//   - []models.Record: all raw rows, concatenated in load order.
//   - error: wraps models.ErrSourceUnavailable when sources are missing,
//     or the first load error encountered.
func LoadRange(dir string, from, to int, categories []models.Category) ([]models.Record, error) {
	log := logger.Stage("load")

	var files []string
	var missing []string

	for year := from; year <= to; year++ {
		for _, cat := range categories {
			path, ok := findSource(dir, year, cat)
			if !ok {
				missing = append(missing, fmt.Sprintf("%d_%s.{csv,html}", year, cat))
				continue
			}
			files = append(files, path)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required files in %s: %s",
			models.ErrSourceUnavailable, dir, strings.Join(missing, ", "))
	}

	log.Info().Int("files", len(files)).Str("dir", dir).Msg("load start")

	var out []models.Record
	for _, f := range files {
		records, err := Load(f)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", f, err)
		}
		log.Debug().Str("file", filepath.Base(f)).Int("rows", len(records)).Msg("file loaded")
		out = append(out, records...)
	}

	log.Info().Int("rows", len(out)).Msg("load done")
	return out, nil
}

// findSource returns the first existing source file for a (year, category)
// pair, trying extensions in precedence order.
func findSource(dir string, year int, cat models.Category) (string, bool) {
	for _, ext := range sourceExtensions {
		p := filepath.Join(dir, fmt.Sprintf("%d_%s%s", year, cat, ext))
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// parseSourceName extracts year and category from "<year>_<category>.<ext>".
func parseSourceName(path string) (int, models.Category, error) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("%w: filename %s does not match <year>_<category>", models.ErrMalformedSource, path)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("%w: filename %s: bad year: %v", models.ErrMalformedSource, path, err)
	}
	cat, ok := models.ParseCategory(parts[1])
	if !ok {
		return 0, "", fmt.Errorf("%w: filename %s: bad category %q", models.ErrMalformedSource, path, parts[1])
	}
	return year, cat, nil
}
