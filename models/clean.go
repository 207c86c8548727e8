package models

import (
	"time"

	"github.com/yuvalsigall-cpu/menu-cleaner/dedupe"
)

// Job statuses stored with async cleanup jobs.
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobDone       = "done"
	JobFailed     = "failed"
)

// CleanResult is the outcome of a synchronous cleanup run.
type CleanResult struct {
	RunID      string         `json:"run_id"`
	Filename   string         `json:"filename"`
	ReportName string         `json:"report_name"`
	Summary    dedupe.Summary `json:"summary"`
	// Workbook holds the rendered XLSX report.
	Workbook []byte `json:"-"`
}

// CleanValidation is returned by the validate endpoint: the counts of a run
// without the rendered workbook.
type CleanValidation struct {
	Filename string         `json:"filename"`
	Headers  []string       `json:"headers"`
	Summary  dedupe.Summary `json:"summary"`
}

// Job is the metadata of an async cleanup job.
type Job struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Filename   string          `json:"filename"`
	UploadKey  string          `json:"upload_key"`
	ReportKey  string          `json:"report_key,omitempty"`
	ReportName string          `json:"report_name,omitempty"`
	RunID      string          `json:"run_id,omitempty"`
	Error      string          `json:"error,omitempty"`
	Summary    *dedupe.Summary `json:"summary,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Run is a persisted summary of one cleanup run.
type Run struct {
	ID        string         `json:"id"`
	JobID     string         `json:"job_id,omitempty"`
	Filename  string         `json:"filename"`
	Summary   dedupe.Summary `json:"summary"`
	CreatedAt time.Time      `json:"created_at"`
}
