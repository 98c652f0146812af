package storage

import (
	"database/sql"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/vitipulse/internal/domain/models"
)

// AggregatesRepository defines the contract for the optional Postgres
// artifact sink. The pipeline only ever writes through it.
type AggregatesRepository interface {
	InsertAggregatesBatch(runID string, results []models.AggregateResult) error
	UpsertRunLog(runID string, ranAt time.Time, rowsRead, rowsDropped, rowsProcessed int) error
	DeleteAggregatesByDate(day time.Time) error
}

type aggregatesRepository struct {
	db *sql.DB
}

func NewAggregatesRepository(db *sql.DB) AggregatesRepository {
	return &aggregatesRepository{db: db}
}

// InsertAggregatesBatch inserts a run's aggregate results in a single
// transaction using COPY.
func (r *aggregatesRepository) InsertAggregatesBatch(runID string, results []models.AggregateResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(
		"aggregates",
		"run_id",
		"year",
		"country",
		"continent",
		"category",
		"total_quantity",
		"total_value",
		"share_of_total",
		"rank",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	// helper to map unset key dimensions to NULL (nil)
	toNullString := func(s string) interface{} {
		if s == "" {
			return nil
		}
		return s
	}
	toNullYear := func(y int) interface{} {
		if y == 0 {
			return nil
		}
		return y
	}

	for _, res := range results {
		if _, err := stmt.Exec(
			runID,
			toNullYear(res.Key.Year),
			toNullString(res.Key.Country),
			toNullString(res.Key.Continent),
			toNullString(string(res.Key.Category)),
			res.TotalQuantity,
			res.TotalValue,
			res.ShareOfTotal,
			res.Rank,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// UpsertRunLog records (or updates) the run accounting for a run ID.
func (r *aggregatesRepository) UpsertRunLog(runID string, ranAt time.Time, rowsRead, rowsDropped, rowsProcessed int) error {
	_, err := r.db.Exec(`
		INSERT INTO run_log (run_id, ran_at, rows_read, rows_dropped, rows_processed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id)
		DO UPDATE SET ran_at = EXCLUDED.ran_at,
					  rows_read = EXCLUDED.rows_read,
					  rows_dropped = EXCLUDED.rows_dropped,
					  rows_processed = EXCLUDED.rows_processed
	`, runID, ranAt, rowsRead, rowsDropped, rowsProcessed)
	return err
}

// DeleteAggregatesByDate removes the aggregates of every run logged on the
// given day, so a forced re-run leaves no stale groups behind.
func (r *aggregatesRepository) DeleteAggregatesByDate(day time.Time) error {
	_, err := r.db.Exec(`
		DELETE FROM aggregates
		WHERE run_id IN (SELECT run_id FROM run_log WHERE ran_at::date = $1::date)
	`, day)
	return err
}
