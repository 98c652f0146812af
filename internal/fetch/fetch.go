package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/guttosm/vitipulse/internal/domain/models"
	"github.com/guttosm/vitipulse/internal/logger"
)

// catOptions maps a category to the VitiBrasil query option for its
// yearly table. The sub-option pins the table wine variant.
var catOptions = map[models.Category]string{
	models.CategoryProduction:        "opt_02",
	models.CategoryCommercialization: "opt_04",
	models.CategoryImport:            "opt_05",
	models.CategoryExport:            "opt_06",
}

const subOption = "subopt_01"

// Fetcher downloads VitiBrasil pages into the raw directory so pipeline
// runs stay offline. Downloads share one polite rate limit against the
// source regardless of parallelism.
type Fetcher struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	maxPar  int
}

// New builds a Fetcher.
//
// Parameters:
//   - baseURL:    VitiBrasil base URL.
//   - rps:        global requests per second (≤0 falls back to 1).
//   - parallel:   concurrent downloads, clamped to 1..4.
//   - timeoutSec: per-request timeout in seconds.
func New(baseURL string, rps float64, parallel, timeoutSec int) *Fetcher {
	if rps <= 0 {
		rps = 1
	}
	if parallel < 1 {
		parallel = 1
	}
	if parallel > 4 {
		parallel = 4
	}
	return &Fetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		maxPar:  parallel,
	}
}

// FetchRange downloads every (year, category) page in the range to dir as
// "<year>_<category>.html".
//
// Behavior:
//   - Files already present are skipped unless force is set.
//   - Downloads run with bounded parallelism; the first error cancels the
//     remaining ones.
//   - A non-200 response or an unreadable body fails that download with a
//     models.ErrSourceUnavailable wrap.
func (f *Fetcher) FetchRange(ctx context.Context, dir string, from, to int, categories []models.Category, force bool) error {
	log := logger.Stage("fetch")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	type job struct {
		year int
		cat  models.Category
	}
	var jobs []job
	for year := from; year <= to; year++ {
		for _, cat := range categories {
			jobs = append(jobs, job{year: year, cat: cat})
		}
	}

	log.Info().Int("pages", len(jobs)).Int("max_parallel", f.maxPar).Str("dir", dir).Msg("fetch start")

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, f.maxPar)

	for _, j := range jobs {
		j := j
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()

			name := fmt.Sprintf("%d_%s.html", j.year, j.cat)
			path := filepath.Join(dir, name)

			if _, err := os.Stat(path); err == nil && !force {
				log.Info().Str("file", name).Bool("skipped", true).Msg("already fetched")
				return nil
			}

			start := time.Now()
			if err := f.fetchOne(gctx, j.year, j.cat, path); err != nil {
				log.Error().Str("file", name).Dur("elapsed", time.Since(start)).Err(err).Msg("fetch failed")
				return err
			}
			log.Info().Str("file", name).Dur("elapsed", time.Since(start)).Msg("fetched")
			return nil
		})
	}

	return g.Wait()
}

func (f *Fetcher) fetchOne(ctx context.Context, year int, cat models.Category, path string) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/index.php?ano=%d&opcao=%s&subopcao=%s", f.baseURL, year, catOptions[cat], subOption)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrSourceUnavailable, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", models.ErrSourceUnavailable, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrSourceUnavailable, url, err)
	}

	return os.WriteFile(path, body, 0644)
}
