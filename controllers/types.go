package controllers

import (
	"context"
	"io"
	"time"

	"github.com/yuvalsigall-cpu/menu-cleaner/models"
	"github.com/yuvalsigall-cpu/menu-cleaner/services"
)

const DefaultContextTimeout = 60 * time.Second

// Response headers carrying the run counts of a synchronous cleanup.
const (
	HeaderRowsTotal       = "X-Rows-Total"
	HeaderRowsKept        = "X-Rows-Kept"
	HeaderRowsProblematic = "X-Rows-Problematic"
	HeaderRunID           = "X-Run-ID"
)

// CleanerServiceAPI defines the cleanup operations used by the handlers
type CleanerServiceAPI interface {
	Clean(ctx context.Context, filename string, r io.Reader) (*models.CleanResult, error)
	Validate(ctx context.Context, filename string, r io.Reader) (*models.CleanValidation, error)
	LookupUpload(ctx context.Context, r io.Reader, query string) (*services.LookupResult, error)
	Enqueue(ctx context.Context, filename string, data []byte) (string, error)
	Job(ctx context.Context, id string) (*models.Job, error)
	ReportURL(ctx context.Context, id string) (string, error)
	Lookup(ctx context.Context, id, query string) (*services.LookupResult, error)
	History(ctx context.Context, limit int) ([]models.Run, error)
}
