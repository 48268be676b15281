package ingest

import "fmt"

// Result tracks counts and per-file errors from a bulk ingestion run.
type Result struct {
	FilesSeen        int
	MatchesLoaded    int
	MatchesSkipped   int
	DeliveriesLoaded int
	Errors           []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"files=%d loaded=%d skipped=%d deliveries=%d errors=%d",
		r.FilesSeen, r.MatchesLoaded, r.MatchesSkipped,
		r.DeliveriesLoaded, len(r.Errors),
	)
}
