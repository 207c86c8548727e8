package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuvalsigall-cpu/menu-cleaner/dedupe"
	"github.com/yuvalsigall-cpu/menu-cleaner/models"
	awspkg "github.com/yuvalsigall-cpu/menu-cleaner/pkg/aws"
	"github.com/yuvalsigall-cpu/menu-cleaner/repository"
	"github.com/yuvalsigall-cpu/menu-cleaner/tabular"
	"go.uber.org/zap"
)

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrJobNotReady   = errors.New("job report not ready")
	ErrInvalidUpload = errors.New("invalid upload")
)

// ReportURLTTL is the lifetime of presigned report links.
const ReportURLTTL = 15 * time.Minute

const serviceName = "catalog-cleaner"

// CleanerService runs catalog cleanups and manages async cleanup jobs.
type CleanerService struct {
	jobs      repository.JobStore
	artifacts repository.ArtifactStore
	runs      repository.RunRepo
	metrics   MetricsRecorder
}

// NewCleanerService wires the stores. runs and metrics may be nil.
func NewCleanerService(jobs repository.JobStore, artifacts repository.ArtifactStore, runs repository.RunRepo, metrics MetricsRecorder) *CleanerService {
	return &CleanerService{
		jobs:      jobs,
		artifacts: artifacts,
		runs:      runs,
		metrics:   metrics,
	}
}

// UploadKey is the artifact key of a job's original upload.
func UploadKey(jobID, filename string) string {
	return fmt.Sprintf("uploads/%s/%s", jobID, filename)
}

// ReportKey is the artifact key of a job's rendered workbook.
func ReportKey(jobID string) string {
	return fmt.Sprintf("reports/%s/%s", jobID, tabular.DefaultReportName)
}

// Clean reads an upload, runs the dedup pipeline and renders the workbook.
func (s *CleanerService) Clean(ctx context.Context, filename string, r io.Reader) (*models.CleanResult, error) {
	return s.clean(ctx, filename, r, "")
}

// Validate runs the pipeline and returns the counts only.
func (s *CleanerService) Validate(ctx context.Context, filename string, r io.Reader) (*models.CleanValidation, error) {
	table, rep, err := analyze(r)
	if err != nil {
		return nil, err
	}
	return &models.CleanValidation{
		Filename: filename,
		Headers:  table.Headers,
		Summary:  rep.Summary(),
	}, nil
}

// LookupUpload runs a debug lookup against an ad-hoc upload.
func (s *CleanerService) LookupUpload(ctx context.Context, r io.Reader, query string) (*LookupResult, error) {
	table, rep, err := analyze(r)
	if err != nil {
		return nil, err
	}
	return NewLookupResult(query, table, rep), nil
}

// Enqueue stores the upload and queues an async cleanup job.
func (s *CleanerService) Enqueue(ctx context.Context, filename string, data []byte) (string, error) {
	name := sanitizeFilename(filename)
	now := time.Now().UTC()
	job := &models.Job{
		ID:        uuid.New().String(),
		Status:    models.JobPending,
		Filename:  name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.UploadKey = UploadKey(job.ID, name)

	if err := s.artifacts.Put(ctx, job.UploadKey, data, contentTypeFor(name)); err != nil {
		return "", fmt.Errorf("failed to persist upload: %w", err)
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return "", err
	}
	if err := s.jobs.Enqueue(ctx, job.ID); err != nil {
		_ = s.jobs.Delete(ctx, job.ID)
		return "", err
	}

	zap.L().Info("Catalog clean job queued", zap.String("job_id", job.ID), zap.String("filename", name))
	return job.ID, nil
}

// ProcessJob runs a queued job and stores its report and final status.
func (s *CleanerService) ProcessJob(ctx context.Context, id string) error {
	job, err := s.Job(ctx, id)
	if err != nil {
		return err
	}

	job.Status = models.JobProcessing
	job.UpdatedAt = time.Now().UTC()
	if err := s.jobs.Save(ctx, job); err != nil {
		return err
	}

	data, err := s.artifacts.Get(ctx, job.UploadKey)
	if err != nil {
		return s.fail(ctx, job, fmt.Errorf("failed to load upload: %w", err))
	}

	res, err := s.clean(ctx, job.Filename, bytes.NewReader(data), job.ID)
	if err != nil {
		return s.fail(ctx, job, err)
	}

	reportKey := ReportKey(job.ID)
	if err := s.artifacts.Put(ctx, reportKey, res.Workbook, tabular.ContentTypeXLSX); err != nil {
		return s.fail(ctx, job, fmt.Errorf("failed to store report: %w", err))
	}

	job.Status = models.JobDone
	job.ReportKey = reportKey
	job.ReportName = res.ReportName
	job.RunID = res.RunID
	job.Summary = &res.Summary
	job.Error = ""
	job.UpdatedAt = time.Now().UTC()
	return s.jobs.Save(ctx, job)
}

// Job returns the metadata of an async job.
func (s *CleanerService) Job(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.jobs.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// ReportURL returns a presigned download link for a finished job's workbook.
func (s *CleanerService) ReportURL(ctx context.Context, id string) (string, error) {
	job, err := s.Job(ctx, id)
	if err != nil {
		return "", err
	}
	if job.Status != models.JobDone || job.ReportKey == "" {
		return "", ErrJobNotReady
	}
	return s.artifacts.PresignGet(ctx, job.ReportKey, job.ReportName, ReportURLTTL)
}

// Lookup reruns the pipeline on a job's stored upload and returns the rows
// matching query.
func (s *CleanerService) Lookup(ctx context.Context, id, query string) (*LookupResult, error) {
	job, err := s.Job(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.artifacts.Get(ctx, job.UploadKey)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load upload: %w", err)
	}
	return s.LookupUpload(ctx, bytes.NewReader(data), query)
}

// History returns the most recent run summaries.
func (s *CleanerService) History(ctx context.Context, limit int) ([]models.Run, error) {
	if s.runs == nil {
		return []models.Run{}, nil
	}
	runs, err := s.runs.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []models.Run{}
	}
	return runs, nil
}

func (s *CleanerService) clean(ctx context.Context, filename string, r io.Reader, jobID string) (*models.CleanResult, error) {
	start := time.Now()
	table, rep, err := analyze(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tabular.WriteWorkbook(&buf, table, rep); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	res := &models.CleanResult{
		RunID:      uuid.New().String(),
		Filename:   filename,
		ReportName: tabular.DefaultReportName,
		Summary:    rep.Summary(),
		Workbook:   buf.Bytes(),
	}
	latency := time.Since(start)

	zap.L().Info("Catalog cleaned",
		zap.String("run_id", res.RunID),
		zap.String("job_id", jobID),
		zap.String("filename", filename),
		zap.Int("total", res.Summary.Total),
		zap.Int("kept", res.Summary.Kept),
		zap.Int("problematic", res.Summary.Problematic),
		zap.Int("deleted", res.Summary.Deleted),
		zap.Duration("latency", latency),
	)

	s.recordMetrics(ctx, res.Summary, latency)
	s.recordRun(ctx, res, jobID)
	return res, nil
}

func (s *CleanerService) fail(ctx context.Context, job *models.Job, cause error) error {
	zap.L().Error("Catalog clean job failed", zap.String("job_id", job.ID), zap.Error(cause))
	job.Status = models.JobFailed
	job.Error = cause.Error()
	job.UpdatedAt = time.Now().UTC()
	if err := s.jobs.Save(ctx, job); err != nil {
		zap.L().Error("Failed to store job failure", zap.String("job_id", job.ID), zap.Error(err))
	}
	return cause
}

func (s *CleanerService) recordRun(ctx context.Context, res *models.CleanResult, jobID string) {
	if s.runs == nil {
		return
	}
	run := &models.Run{
		ID:        res.RunID,
		JobID:     jobID,
		Filename:  res.Filename,
		Summary:   res.Summary,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		zap.L().Warn("Failed to record run summary", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func (s *CleanerService) recordMetrics(ctx context.Context, sum dedupe.Summary, latency time.Duration) {
	if s.metrics == nil {
		return
	}
	dims := map[string]string{"Service": serviceName}
	errs := []error{
		s.metrics.RecordCount(ctx, awspkg.MetricCleanRuns, dims),
		s.metrics.RecordValue(ctx, awspkg.MetricRowsProcessed, float64(sum.Total), dims),
		s.metrics.RecordValue(ctx, awspkg.MetricRowsProblematic, float64(sum.Problematic), dims),
		s.metrics.RecordValue(ctx, awspkg.MetricRowsDeleted, float64(sum.Deleted), dims),
		s.metrics.RecordValue(ctx, awspkg.MetricRowsMissingGTIN, float64(sum.Missing+sum.MissingAndDuplicate), dims),
		s.metrics.RecordLatency(ctx, awspkg.MetricCleanLatency, latency, dims),
	}
	if err := errors.Join(errs...); err != nil {
		zap.L().Warn("Failed to record clean metrics", zap.Error(err))
	}
}

// analyze reads the upload, resolves its schema and runs the pipeline.
// Schema errors are returned unchanged.
func analyze(r io.Reader) (*tabular.Table, *dedupe.Report, error) {
	table, err := tabular.Read(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}
	schema, err := tabular.ResolveSchema(table.Headers)
	if err != nil {
		return nil, nil, err
	}
	return table, dedupe.Run(table.Rows(schema)), nil
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "upload.csv"
	}
	return name
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return tabular.ContentTypeXLSX
	case ".xls":
		return "application/vnd.ms-excel"
	default:
		return "text/csv"
	}
}
