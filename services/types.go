package services

import (
	"context"
	"io"
	"time"

	"github.com/yuvalsigall-cpu/menu-cleaner/dedupe"
	"github.com/yuvalsigall-cpu/menu-cleaner/tabular"
)

// MetricsRecorder receives run metrics. *aws.MetricsClient implements it.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordValue(ctx context.Context, metricName string, value float64, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// LookupResult holds the rows of an upload matching a debug query.
type LookupResult struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Matches []dedupe.Match `json:"matches"`

	table  *tabular.Table
	report *dedupe.Report
}

// NewLookupResult runs query against report.
func NewLookupResult(query string, table *tabular.Table, report *dedupe.Report) *LookupResult {
	matches := report.Lookup(query)
	if matches == nil {
		matches = []dedupe.Match{}
	}
	return &LookupResult{
		Query:   query,
		Total:   len(matches),
		Matches: matches,
		table:   table,
		report:  report,
	}
}

// WriteCSV exports the matching rows with their original columns and status.
func (r *LookupResult) WriteCSV(w io.Writer) error {
	return tabular.WriteCSV(w, r.table, r.report, dedupe.Indices(r.Matches))
}
