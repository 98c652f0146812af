package dto

import "time"

// RunSummary is the JSON artifact written at the end of every pipeline
// run. It is the user-facing accounting of what happened to the input:
// every row read is either processed or dropped, and every drop has a
// reason.
//
// Fields match the artifact contract and may differ from internal
// pipeline types; this keeps the report surface decoupled from the
// stage implementations.
type RunSummary struct {
	RunID         string         `json:"run_id"`
	StartedAt     time.Time      `json:"started_at"`
	ElapsedMs     int64          `json:"elapsed_ms"`
	Years         [2]int         `json:"years"` // [from, to]
	Categories    []string       `json:"categories"`
	RowsRead      int            `json:"rows_read"`
	RowsDropped   int            `json:"rows_dropped"`
	RowsProcessed int            `json:"rows_processed"`
	DropReasons   map[string]int `json:"drop_reasons,omitempty"`
	Groups        int            `json:"groups"`
}
