package models

import "errors"

// Error taxonomy for a pipeline run.
//
// Structural problems abort the run: a source that cannot be read wraps
// ErrSourceUnavailable, a source that reads but does not match the
// expected shape wraps ErrMalformedSource. Row-scoped problems never
// abort: an unmapped label wraps ErrUnknownCategory, the row is dropped
// and counted, and the run continues.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrMalformedSource   = errors.New("malformed source")
	ErrUnknownCategory   = errors.New("unknown category label")
)
